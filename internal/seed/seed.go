// Package seed loads the starter catalog: the categories, bins and parts the
// system shipped with. Loading is idempotent; everything is matched by its
// natural key first and only created when absent.
package seed

import (
	"go.uber.org/zap"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

type seedPart struct {
	Name           string
	Quantity       int
	PartType       string
	Specifications string
	Manufacturer   string
	BinNumber      int
	Categories     []string
}

var seedCategories = []entity.Category{
	{Name: "Power Supplies", Description: "DC power supplies, AC adapters, and chargers"},
	{Name: "Cables", Description: "Various cables and connectors"},
	{Name: "Adapters", Description: "Video adapters, converters, and dongles"},
	{Name: "Electronics", Description: "Electronic components and devices"},
	{Name: "3D Printing", Description: "3D printing accessories and supplies"},
}

var seedBins = []entity.Bin{
	{Number: 1, Name: "Cables Bin", Description: "Various cables and connectors"},
	{Number: 2, Name: "Electronics Bin", Description: "Electronic components and adapters"},
	{Number: 3, Name: "Power Supplies Bin", Description: "DC power supplies and AC adapters"},
	{Number: 4, Name: "3D Printing Bin", Description: "3D printing accessories and supplies"},
}

var seedParts = []seedPart{
	{Name: "Dell 19.5v 2.31a DC power supply", Quantity: 2, PartType: "Power Supply", Specifications: "19.5V 2.31A with barrel jack", BinNumber: 3, Categories: []string{"Power Supplies"}},
	{Name: "UBTECH DVE DC switching power supply", Quantity: 1, PartType: "Power Supply", Specifications: "9.6V 2A with barrel jack", Manufacturer: "UBTECH", BinNumber: 3, Categories: []string{"Power Supplies"}},
	{Name: "5V 2A DC switching power supply", Quantity: 1, PartType: "Power Supply", Specifications: "5V 2A with barrel jack", BinNumber: 3, Categories: []string{"Power Supplies"}},
	{Name: "6V 0.3A DC power supply", Quantity: 1, PartType: "Power Supply", Specifications: "6V 0.3A with barrel jack", BinNumber: 3, Categories: []string{"Power Supplies"}},
	{Name: "12V 0.5A DC power supply", Quantity: 1, PartType: "Power Supply", Specifications: "12V 0.5A with barrel jack", BinNumber: 3, Categories: []string{"Power Supplies"}},
	{Name: "USB-C charging cable", Quantity: 4, PartType: "Cable", Specifications: "USB-C to USB-A, 1m", BinNumber: 1, Categories: []string{"Cables"}},
	{Name: "HDMI cable", Quantity: 3, PartType: "Cable", Specifications: "HDMI 2.0, 2m", BinNumber: 1, Categories: []string{"Cables"}},
	{Name: "Micro USB cable", Quantity: 5, PartType: "Cable", Specifications: "USB-A to Micro USB, 0.5m", BinNumber: 1, Categories: []string{"Cables"}},
	{Name: "HDMI to VGA adapter", Quantity: 1, PartType: "Adapter", Specifications: "HDMI male to VGA female", BinNumber: 2, Categories: []string{"Adapters", "Electronics"}},
	{Name: "USB-C to HDMI adapter", Quantity: 1, PartType: "Adapter", Specifications: "USB-C male to HDMI female, 4K", BinNumber: 2, Categories: []string{"Adapters", "Electronics"}},
	{Name: "Raspberry Pi 4 Model B", Quantity: 1, PartType: "Single Board Computer", Specifications: "4GB RAM", Manufacturer: "Raspberry Pi Foundation", BinNumber: 2, Categories: []string{"Electronics"}},
	{Name: "PLA filament sample", Quantity: 2, PartType: "Filament", Specifications: "1.75mm, assorted colors", BinNumber: 4, Categories: []string{"3D Printing"}},
	{Name: "Nozzle cleaning kit", Quantity: 1, PartType: "Tool", Specifications: "0.4mm needles and brush", BinNumber: 4, Categories: []string{"3D Printing"}},
}

// Load populates the starter catalog.
func Load(repos *repository.Repositories, logger *zap.Logger) error {
	for _, cat := range seedCategories {
		existing, err := repos.Category.GetByName(cat.Name)
		if err != nil {
			return err
		}
		if existing == nil {
			c := cat
			if err := repos.Category.Create(&c); err != nil {
				return err
			}
			logger.Info("seeded category", zap.String("name", c.Name))
		}
	}

	for _, bin := range seedBins {
		existing, err := repos.Bin.GetByNumber(bin.Number)
		if err != nil {
			return err
		}
		if existing == nil {
			b := bin
			if err := repos.Bin.Create(&b); err != nil {
				return err
			}
			logger.Info("seeded bin", zap.Int("number", b.Number))
		}
	}

	for _, sp := range seedParts {
		bin, err := repos.Bin.GetByNumber(sp.BinNumber)
		if err != nil {
			return err
		}
		if bin == nil {
			continue
		}

		// Seeding reruns must not duplicate parts; name within a bin is the
		// practical identity here.
		existing, err := repos.Part.List(repository.PartListParams{BinID: bin.ID, Limit: 1000})
		if err != nil {
			return err
		}
		found := false
		for _, p := range existing {
			if p.Name == sp.Name {
				found = true
				break
			}
		}
		if found {
			continue
		}

		part := &entity.Part{
			Name:           sp.Name,
			Quantity:       sp.Quantity,
			PartType:       sp.PartType,
			Specifications: sp.Specifications,
			Manufacturer:   sp.Manufacturer,
			BinID:          bin.ID,
		}
		if err := repos.Part.Create(part); err != nil {
			return err
		}

		var cats []entity.Category
		for _, name := range sp.Categories {
			cat, err := repos.Category.GetByName(name)
			if err != nil {
				return err
			}
			if cat != nil {
				cats = append(cats, *cat)
			}
		}
		if err := repos.Part.AppendCategories(part.ID, cats); err != nil {
			return err
		}
	}

	logger.Info("seed data loaded")
	return nil
}
