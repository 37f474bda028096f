// Seeder creates the schema and loads a small set of sample leads for local
// development. Safe to run repeatedly: tables are created if missing and
// sample rows are skipped when their email already exists.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"

	"outreachengine/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS daycares (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	address        TEXT,
	city           TEXT,
	email          TEXT,
	phone          TEXT,
	website        TEXT,
	region         TEXT NOT NULL DEFAULT 'USA',
	source         TEXT,
	last_contacted TIMESTAMPTZ,
	email_opened   BOOLEAN NOT NULL DEFAULT FALSE,
	email_replied  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS influencers (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	platform        TEXT NOT NULL,
	follower_count  INTEGER,
	country         TEXT,
	email           TEXT,
	bio             TEXT,
	contact_page    TEXT,
	niche           TEXT,
	engagement_rate DOUBLE PRECISION,
	last_contacted  TIMESTAMPTZ,
	email_opened    BOOLEAN NOT NULL DEFAULT FALSE,
	email_replied   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outreach_history (
	id            BIGSERIAL PRIMARY KEY,
	target_type   TEXT NOT NULL,
	target_id     BIGINT NOT NULL,
	email_subject TEXT NOT NULL,
	email_content TEXT NOT NULL,
	language      TEXT NOT NULL,
	sent_at       TIMESTAMPTZ NOT NULL,
	opened_at     TIMESTAMPTZ,
	replied_at    TIMESTAMPTZ,
	bounced       BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_daycares_last_contacted ON daycares (last_contacted) WHERE last_contacted IS NULL;
CREATE INDEX IF NOT EXISTS idx_influencers_last_contacted ON influencers (last_contacted) WHERE last_contacted IS NULL;
CREATE INDEX IF NOT EXISTS idx_outreach_history_sent_at ON outreach_history (sent_at DESC);
`

type daycareSeed struct {
	name, address, city, email, phone, website, region string
}

type influencerSeed struct {
	name, platform string
	followers      int
	country, email string
	niche          string
	engagementRate float64
}

var daycareSeeds = []daycareSeed{
	{"Sunny Days Daycare", "120 Oak St", "Austin", "hello@sunnydays.example.com", "+1 512 555 0101", "https://sunnydays.example.com", "USA"},
	{"Little Stars Learning Center", "88 Maple Ave", "Denver", "contact@littlestars.example.com", "+1 303 555 0144", "https://littlestars.example.com", "USA"},
	{"Tiny Tots Academy", "45 Pine Rd", "Portland", "info@tinytots.example.com", "+1 503 555 0177", "", "USA"},
	{"Les Petits Lutins", "12 rue des Lilas", "Lyon", "bonjour@petitslutins.example.fr", "+33 4 55 55 01 12", "https://petitslutins.example.fr", "FRANCE"},
	{"La Maison des Enfants", "3 avenue Victor Hugo", "Paris", "contact@maisondesenfants.example.fr", "+33 1 55 55 02 34", "", "FRANCE"},
}

var influencerSeeds = []influencerSeed{
	{"Jamie Parker", "YOUTUBE", 125000, "USA", "jamie@parkerfamily.example.com", "family vlogging", 4.2},
	{"Dana Brooks", "INSTAGRAM", 68000, "USA", "dana@brookshome.example.com", "parenting tips", 5.8},
	{"Marie Dubois", "INSTAGRAM", 94000, "FRANCE", "marie@mariedubois.example.fr", "parentalité", 6.1},
	{"Lucas Bernard", "YOUTUBE", 210000, "FRANCE", "lucas@bernardfamille.example.fr", "vie de famille", 3.7},
}

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("failed to create schema", "err", err)
		os.Exit(1)
	}
	logger.Info("schema ready")

	for _, d := range daycareSeeds {
		res, err := db.ExecContext(ctx, `
			INSERT INTO daycares (name, address, city, email, phone, website, region, source)
			SELECT $1, $2, $3, $4, $5, $6, $7, 'seed'
			WHERE NOT EXISTS (SELECT 1 FROM daycares WHERE email = $4)
		`, d.name, d.address, d.city, d.email, d.phone, d.website, d.region)
		if err != nil {
			logger.Error("failed to seed daycare", "name", d.name, "err", err)
			os.Exit(1)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("seeded daycare", "name", d.name)
		}
	}

	for _, i := range influencerSeeds {
		res, err := db.ExecContext(ctx, `
			INSERT INTO influencers (name, platform, follower_count, country, email, niche, engagement_rate)
			SELECT $1, $2, $3, $4, $5, $6, $7
			WHERE NOT EXISTS (SELECT 1 FROM influencers WHERE email = $5)
		`, i.name, i.platform, i.followers, i.country, i.email, i.niche, i.engagementRate)
		if err != nil {
			logger.Error("failed to seed influencer", "name", i.name, "err", err)
			os.Exit(1)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("seeded influencer", "name", i.name)
		}
	}

	logger.Info("seeding complete")
}
