package artifact

import (
	"database/sql"
	"fmt"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// PGArchive mirrors every persisted report into a Postgres table so reports
// survive local disk loss and stay queryable. Idempotent via the
// (report_type, generated_at) unique key.
type PGArchive struct {
	db        *sql.DB
	tableName string
}

func NewPGArchive(db *sql.DB, table string) *PGArchive {
	return &PGArchive{db: db, tableName: table}
}

func (p *PGArchive) Name() string { return "postgres" }

func (p *PGArchive) Save(a domain.Artifact) (string, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (report_type, generated_at, body) VALUES ($1,$2,$3) ON CONFLICT (report_type, generated_at) DO NOTHING",
		p.tableName,
	)
	if _, err := p.db.Exec(query, a.ReportType, a.GeneratedAt, a.Body); err != nil {
		return "", fmt.Errorf("archive report: %w", err)
	}
	return fmt.Sprintf("%s/%s@%s", p.tableName, a.ReportType, a.GeneratedAt.Format("20060102_150405")), nil
}

var _ ports.ArtifactStore = (*PGArchive)(nil)
