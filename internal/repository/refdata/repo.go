package refdata

import (
	"context"
	"log"

	"versement_export/internal/config/connections/postgres"
	ref "versement_export/internal/refdata"
)

// Repo loads the reference catalogues from Postgres. The tables mirror the
// annex tables of the deposit format; when they are absent or empty the
// builtin catalogues are used unchanged.
type Repo struct {
	pg *postgres.Postgres
}

func NewRepo(pg *postgres.Postgres) *Repo {
	return &Repo{pg: pg}
}

// Load returns the catalogues for validator construction. Any DB failure
// falls back to the builtin sets: the service must stay usable without the
// reference tables provisioned.
func (r *Repo) Load(ctx context.Context) *ref.Catalogues {
	if r == nil || r.pg == nil || r.pg.Pool == nil {
		return ref.Builtin()
	}

	natures := r.codes(ctx, "nature_affaire_codes")
	tribunals := r.codes(ctx, "tribunal_codes")
	dossiers := r.codes(ctx, "dossier_codes")

	if len(natures) == 0 || len(tribunals) == 0 {
		log.Printf("[REFDATA] catalogue tables empty or unavailable, using builtin sets")
		return ref.Builtin()
	}
	if len(dossiers) == 0 {
		dossiers = ref.Builtin().Dossiers()
	}

	log.Printf("[REFDATA] loaded catalogues from postgres: natures=%d tribunals=%d dossiers=%d",
		len(natures), len(tribunals), len(dossiers))
	return ref.New(natures, tribunals, dossiers)
}

func (r *Repo) codes(ctx context.Context, table string) []string {
	rows, err := r.pg.Pool.Query(ctx, `SELECT code FROM `+table+` ORDER BY code`)
	if err != nil {
		log.Printf("[REFDATA][WARN] query %s: %v", table, err)
		return nil
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			continue
		}
		out = append(out, code)
	}
	return out
}
