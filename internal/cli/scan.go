package cli

import (
	"errors"
	"log/slog"

	"phototag/internal/adapters/storage/imagetag"
	"phototag/internal/application/orchestrators"
	"phototag/internal/bootstrap"
)

var (
	errScanDisabled = errors.New("--scan needs metadata access; drop --no-write")
	errNoListing    = errors.New("the image store cannot list its images; name them explicitly")
)

// scanImages loads the keywords already embedded in the files into the store
// and registers them in the vocabulary.
func scanImages(f *Factory, rt *bootstrap.Runtime, images []string) error {
	if rt.Reader == nil {
		return errScanDisabled
	}
	n, err := imagetag.Warm(f.Context, rt.ImageTags, images, rt.Reader)
	if err != nil {
		return err
	}
	slog.Info("images_scanned", "requested", len(images), "loaded", n)
	return discoverTags(f, rt, images)
}

// discoverTags registers the tags the images carry in the vocabulary.
func discoverTags(f *Factory, rt *bootstrap.Runtime, images []string) error {
	deps := orchestrators.DiscoverTagsDeps{Session: rt.Session, Store: rt.ImageTags}
	if rt.KnownTags != nil {
		deps.KnownTags = rt.KnownTags
	}
	_, err := orchestrators.ExecuteDiscoverTags(f.Context, orchestrators.DiscoverTagsInput{Images: images}, deps)
	return err
}

// resolveImages returns args, or every tracked image when args is empty.
func resolveImages(f *Factory, rt *bootstrap.Runtime, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	lister, ok := rt.ImageTags.(imagetag.Lister)
	if !ok {
		return nil, errNoListing
	}
	return lister.ListImages(f.Context)
}
