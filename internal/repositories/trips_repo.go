package repositories

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"ukrbus/internal/data"
	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
)

// TemplateLoader reads the template trips of one locale.
type TemplateLoader func() ([]models.TripTemplate, error)

// TripCatalog resolves a locale to its template trips. The registry is
// fixed at construction; lookups never build paths from user input.
type TripCatalog struct {
	loaders map[domain.Locale]TemplateLoader
}

// NewTripCatalog builds a catalog from explicit loaders.
func NewTripCatalog(loaders map[domain.Locale]TemplateLoader) TripCatalog {
	m := make(map[domain.Locale]TemplateLoader, len(loaders))
	for l, fn := range loaders {
		m[l] = fn
	}
	return TripCatalog{loaders: m}
}

// NewEmbeddedTripCatalog decodes the embedded documents once and serves
// them from memory. A broken document fails here, at startup.
func NewEmbeddedTripCatalog() (TripCatalog, error) {
	return NewTripCatalogFromFS(data.Trips, map[domain.Locale]string{
		domain.LocaleEN: "trips/en.json",
		domain.LocaleUK: "trips/uk.json",
	})
}

// NewTripCatalogFromFS decodes one document per locale from fsys.
func NewTripCatalogFromFS(fsys fs.FS, files map[domain.Locale]string) (TripCatalog, error) {
	loaders := make(map[domain.Locale]TemplateLoader, len(files))
	for locale, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return TripCatalog{}, fmt.Errorf("read %s trips: %w", locale, err)
		}
		var doc models.TripsDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return TripCatalog{}, fmt.Errorf("decode %s trips: %w", locale, err)
		}
		trips := doc.Trips
		loaders[locale] = func() ([]models.TripTemplate, error) {
			out := make([]models.TripTemplate, len(trips))
			copy(out, trips)
			return out, nil
		}
	}
	return TripCatalog{loaders: loaders}, nil
}

// Templates returns the template trips of locale in document order.
func (c TripCatalog) Templates(locale domain.Locale) ([]models.TripTemplate, error) {
	load, ok := c.loaders[locale]
	if !ok {
		return nil, domain.InvalidArgumentError{Arg: "locale", Value: string(locale), Msg: "no trip data"}
	}
	return load()
}

// Locales lists the locales with registered data, in domain.Locales order.
func (c TripCatalog) Locales() []domain.Locale {
	out := make([]domain.Locale, 0, len(c.loaders))
	for _, l := range domain.Locales {
		if _, ok := c.loaders[l]; ok {
			out = append(out, l)
		}
	}
	return out
}
