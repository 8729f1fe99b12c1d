package cli

import "github.com/spf13/cobra"

// App is the CLI application.
type App struct {
	factory *Factory
	root    *cobra.Command
}

// New returns the CLI App.
func New(opts ...Option) *App {
	f := NewFactory(opts...)
	return &App{
		factory: f,
		root:    newRootCmd(f),
	}
}

// Factory returns the CLI Factory.
func (app *App) Factory() *Factory {
	return app.factory
}

// Root returns the root command.
func (app *App) Root() *cobra.Command {
	return app.root
}

// Run runs the app and closes the runtime afterwards.
func (app *App) Run() error {
	defer app.factory.Close()
	return app.root.Execute()
}
