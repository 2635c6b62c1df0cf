package aggregates

import (
	"errors"
	"fmt"
	"testing"

	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505", Message: "dup"}, domainagg.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: scores.part_id"), domainagg.CodeConflict},
		{"gorm duplicated", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"other", errors.New("connection reset"), domainagg.CodeInternal},
		{"already coded", domainagg.Validationf("op", "bad"), domainagg.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domainagg.CodeOf(MapError("scores.save", tc.err)); got != tc.want {
				t.Fatalf("MapError: want=%q got=%q", tc.want, got)
			}
		})
	}
	if MapError("x", nil) != nil {
		t.Fatalf("MapError(nil): want nil")
	}
}
