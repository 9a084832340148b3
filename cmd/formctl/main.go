package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/formulab/backend-go/internal/batch"
	"github.com/formulab/backend-go/internal/cache"
	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/manufacturing"
	"github.com/formulab/backend-go/internal/repository/postgres"
	"github.com/formulab/backend-go/internal/service"
	"github.com/formulab/backend-go/internal/units"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "formctl",
		Usage: "Formulation database tooling",
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Seed the database with sample formulations and BOMs",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "JSON file with formulations to load instead of the built-in samples",
					},
				},
				Action: runSeed,
			},
			{
				Name:  "recalc",
				Usage: "Recalculate every stored formulation at a standard batch size",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.Float64Flag{
						Name:  "batch-size",
						Usage: "Target batch size",
						Value: 1000,
					},
					&cli.StringFlag{
						Name:  "unit",
						Usage: "Target batch unit",
						Value: "kg",
					},
					&cli.Float64Flag{
						Name:  "yield",
						Usage: "Overall yield percentage",
						Value: 95,
					},
					&cli.Int64Flag{
						Name:  "concurrency",
						Usage: "Number of formulations recalculated in parallel",
						Value: 4,
					},
				},
				Action: runRecalc,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSeed(c *cli.Context) error {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	repo := postgres.NewFormulationRepository(db)

	formulations, boms := sampleData()
	if file := c.String("file"); file != "" {
		payload, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		formulations = nil
		boms = nil
		if err := json.Unmarshal(payload, &formulations); err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
	}

	for i := range formulations {
		if err := repo.Create(c.Context, &formulations[i]); err != nil {
			return fmt.Errorf("failed to seed formulation %s: %w", formulations[i].Name, err)
		}
		log.Printf("seeded formulation %s (%s)", formulations[i].Name, formulations[i].ID)
	}

	for i := range boms {
		// Sample BOMs reference formulations by list position.
		boms[i].FormulationID = formulations[boms[i].position].ID
		if err := repo.SaveBOM(c.Context, &boms[i].BillOfMaterials); err != nil {
			return fmt.Errorf("failed to seed BOM %s: %w", boms[i].Name, err)
		}
		log.Printf("seeded BOM %s", boms[i].Name)
	}

	return nil
}

func runRecalc(c *cli.Context) error {
	db, err := postgres.NewDBFromURL(c.String("db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	converter := units.NewConverter()
	eng := engine.New(converter, engine.DefaultConfig())
	estimator := manufacturing.NewEstimator(nil)
	repo := postgres.NewFormulationRepository(db)
	calc := service.NewCalculationService(eng, converter, estimator, repo, cache.NewNoopCalculationCache())

	runner := batch.NewRunner(repo, calc, c.Int64("concurrency"))
	summary, err := runner.Run(c.Context, service.ScaleRequest{
		BatchSize:       c.Float64("batch-size"),
		Unit:            c.String("unit"),
		YieldPercentage: c.Float64("yield"),
	})
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d formulations failed to recalculate", summary.Failed, summary.Total)
	}
	return nil
}

// seedBOM pairs a BOM with the index of the sample formulation it belongs to.
type seedBOM struct {
	domain.BillOfMaterials
	position int
}
