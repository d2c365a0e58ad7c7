package artifact

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
)

func TestPGArchiveSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	archive := NewPGArchive(db, "reports")
	generated := time.Date(2024, 5, 2, 18, 0, 5, 0, time.UTC)

	expectedQuery := regexp.QuoteMeta("INSERT INTO reports (report_type, generated_at, body) VALUES ($1,$2,$3) ON CONFLICT (report_type, generated_at) DO NOTHING")
	mock.ExpectExec(expectedQuery).
		WithArgs("daily", generated, "report body").
		WillReturnResult(sqlmock.NewResult(1, 1))

	locator, err := archive.Save(domain.Artifact{
		ReportType:  "daily",
		GeneratedAt: generated,
		Body:        "report body",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if locator != "reports/daily@20240502_180005" {
		t.Fatalf("unexpected locator %q", locator)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGArchiveSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	archive := NewPGArchive(db, "reports")
	mock.ExpectExec("INSERT INTO reports").WillReturnError(errors.New("connection refused"))

	if _, err := archive.Save(domain.Artifact{ReportType: "daily"}); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestPGArchiveName(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	if NewPGArchive(db, "reports").Name() != "postgres" {
		t.Fatalf("unexpected archive name")
	}
}
