package section

import (
	"os"
	"path/filepath"
	"testing"

	"reportctx/internal/report"
)

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tax.Entries) != 6 {
		t.Fatalf("expected 6 default entries, got %d", len(tax.Entries))
	}
	if tax.Entries[0].Type != report.FinancialStatements {
		t.Errorf("expected financial_statements first, got %s", tax.Entries[0].Type)
	}
}

func TestLoad_YAMLOverridesKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `sections:
  - type: risk_factors
    keywords: ["principal risks", "risk register"]
  - type: esg
    keywords: ["climate", "emissions"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tax.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tax.Entries))
	}
	if tax.Entries[0].Type != report.RiskFactors || tax.Entries[0].Keywords[0] != "principal risks" {
		t.Errorf("unexpected first entry: %+v", tax.Entries[0])
	}

	got := FindSections("the principal risks are listed below\ndetail follows.", tax)
	if len(got[report.RiskFactors]) != 1 {
		t.Errorf("expected custom keyword to open a section")
	}
}

func TestLoad_RejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `sections:
  - type: astrology
    keywords: ["stars"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown section type")
	}
}

func TestLoad_RejectsEmptyKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `sections:
  - type: esg
    keywords: []
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty keyword list")
	}
}
