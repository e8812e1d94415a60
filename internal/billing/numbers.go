package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

// BillNoPrefix plus a 6-digit zero-padded suffix forms a bill number,
// e.g. BILL000001.
const BillNoPrefix = "BILL"

// NumberGenerator allocates sequential bill numbers by scanning the highest
// existing suffix. The scan-then-insert pair is not atomic across callers;
// the Service resolves collisions by retrying on the unique index.
type NumberGenerator struct {
	db *gorm.DB
}

func NewNumberGenerator(db *gorm.DB) *NumberGenerator {
	return &NumberGenerator{db: db}
}

// Next returns the next bill number. Suffixes are zero-padded to a fixed
// width, so the lexical maximum of the indexed column is the numeric
// maximum.
func (g *NumberGenerator) Next() (string, error) {
	var last models.Bill
	err := g.db.Select("bill_no").
		Where("bill_no LIKE ?", BillNoPrefix+"%").
		Order("bill_no DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%06d", BillNoPrefix, 1), nil
	}
	if err != nil {
		return "", err
	}
	suffix := strings.TrimPrefix(last.BillNo, BillNoPrefix)
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("malformed bill number %q: %w", last.BillNo, err)
	}
	return fmt.Sprintf("%s%06d", BillNoPrefix, n+1), nil
}
