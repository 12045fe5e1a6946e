package samples_test

import (
	"testing"

	"github.com/fcc-hep/samplecat/internal/samples"
)

func TestParseLegacyTable(t *testing.T) {
	data := []byte(
		"ee_Zbb,,1000000,,50000,,6645.46,,0.95,,1.2,,/eos/fcc/ee_Zbb,,1073741824\n" +
			"\n" +
			"ee_Zud,,250000,,,,,,,,\r\n" +
			"not-a-number,,many,,,,xs,,eff\n",
	)

	rows := samples.ParseLegacyTable(data)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3 (blank lines skipped)", len(rows))
	}

	t.Run("full record", func(t *testing.T) {
		row := rows[0]
		if row.Label() != "ee_Zbb" {
			t.Errorf("Label() = %q", row.Label())
		}
		if row.Events != "1,000,000" {
			t.Errorf("Events = %q", row.Events)
		}
		if row.EventsPerFile != "50,000" {
			t.Errorf("EventsPerFile = %q", row.EventsPerFile)
		}
		if row.CrossSection != "6645.46" {
			t.Errorf("CrossSection = %q", row.CrossSection)
		}
		if row.Efficiency != "0.95" {
			t.Errorf("Efficiency = %q", row.Efficiency)
		}
		if row.EfficiencyInfo != "k-factor 1.2" {
			t.Errorf("EfficiencyInfo = %q", row.EfficiencyInfo)
		}
		if len(row.Paths) != 1 || row.Paths[0] != "/eos/fcc/ee_Zbb" {
			t.Errorf("Paths = %v", row.Paths)
		}
		if row.Size != "1.0 GB" {
			t.Errorf("Size = %q", row.Size)
		}
	})

	t.Run("short records leave trailing columns empty", func(t *testing.T) {
		row := rows[1]
		if row.Events != "250,000" {
			t.Errorf("Events = %q", row.Events)
		}
		if row.CrossSection != samples.UnknownCrossSection {
			t.Errorf("CrossSection = %q, want %q", row.CrossSection, samples.UnknownCrossSection)
		}
		if len(row.Paths) != 0 {
			t.Errorf("Paths = %v, want empty", row.Paths)
		}
	})

	t.Run("non-numeric fields pass through verbatim", func(t *testing.T) {
		row := rows[2]
		if row.Events != "many" {
			t.Errorf("Events = %q", row.Events)
		}
		if row.CrossSection != "xs" {
			t.Errorf("CrossSection = %q", row.CrossSection)
		}
	})
}

func TestLegacyColumns(t *testing.T) {
	cols := samples.LegacyColumns()
	if len(cols) != 8 {
		t.Fatalf("len(columns) = %d, want 8", len(cols))
	}
	if cols[0] != "name" || cols[7] != "size" {
		t.Errorf("unexpected column layout: %v", cols)
	}
}
