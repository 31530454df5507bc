package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/store"

	"github.com/spf13/cobra"
)

func TestLineFlagsWithoutReferencesFailValidation(t *testing.T) {
	c := &cobra.Command{Use: "new"}
	addDraftFlags(c)
	t.Cleanup(func() {
		draftServices = nil
		draftMaterials = nil
	})

	if err := c.Flags().Set("service", "Revisão;preventiva;100"); err != nil {
		t.Fatal(err)
	}
	if err := c.Flags().Set("material", "Filtro;2;25"); err != nil {
		t.Fatal(err)
	}
	if !anyChanged(c, draftFlagNames...) {
		t.Fatal("line item flags not detected")
	}

	var dr desk.Draft
	if err := draftFromFlags(c, &dr, desk.Snapshot{}); err != nil {
		t.Fatalf("draftFromFlags: %v", err)
	}
	if len(dr.Services) != 1 || len(dr.Materials) != 1 {
		t.Fatalf("draft lines = %d/%d, want 1/1", len(dr.Services), len(dr.Materials))
	}

	st, err := store.Open(filepath.Join(t.TempDir(), store.DBFile))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if _, err := desk.New(st, desk.Defaults{}).CreateBudget(dr); !errors.Is(err, desk.ErrValidation) {
		t.Fatalf("CreateBudget err = %v, want ErrValidation", err)
	}
}
