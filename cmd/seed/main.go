package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey{}).(*sql.DB)
	return db
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare and seed the farmio database",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Apply the SQL schema",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "schema-file",
						Usage:   "Path to the schema file",
						Value:   "./migrations/0001_init.sql",
						EnvVars: []string{"SCHEMA_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: applySchema,
			},
			{
				Name:  "medications",
				Usage: "Import medications from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with medications",
						Value:   "./data/seeds/medications.csv",
						EnvVars: []string{"MEDICATIONS_CSV"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedMedications,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func applySchema(c *cli.Context) error {
	schema, err := os.ReadFile(c.String("schema-file"))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := dbFrom(c).ExecContext(c.Context, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("schema applied")
	return nil
}
