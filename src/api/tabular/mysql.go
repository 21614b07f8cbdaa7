package tabular

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// sheetRow persists one table row. Cells are stored as a JSON array of strings
// so the layout stays positional, exactly like the sheet it replaces.
type sheetRow struct {
	ID    uint64 `gorm:"primaryKey"`
	Sheet string `gorm:"size:64;uniqueIndex:idx_sheet_pos,priority:1;not null"`
	Pos   uint32 `gorm:"uniqueIndex:idx_sheet_pos,priority:2;not null"`
	Cells string `gorm:"type:text;not null"`
}

func (sheetRow) TableName() string { return "sheet_rows" }

// MySQLStore implements Store on a MySQL database through gorm.
type MySQLStore struct {
	db *gorm.DB
}

// Open migrates the backing table and returns the store.
func Open(db *gorm.DB) (*MySQLStore, error) {
	if err := db.AutoMigrate(&sheetRow{}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Name() string {
	if name := s.db.Migrator().CurrentDatabase(); name != "" {
		return name
	}
	return "mysql"
}

func (s *MySQLStore) EnsureTable(ctx context.Context, name string, header Row) (*Table, error) {
	var head sheetRow
	err := s.db.WithContext(ctx).Where("sheet = ? AND pos = 1", name).First(&head).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		cells, err := json.Marshal(header)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Create(&sheetRow{Sheet: name, Pos: 1, Cells: string(cells)}).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return NewTable(name, header), nil
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var stored Row
	if err := json.Unmarshal([]byte(head.Cells), &stored); err != nil {
		return nil, fmt.Errorf("corrupt header row for table %s: %w", name, err)
	}
	return NewTable(name, stored), nil
}

func (s *MySQLStore) ReadAll(ctx context.Context, t *Table) ([]Row, error) {
	var recs []sheetRow
	if err := s.db.WithContext(ctx).Where("sheet = ?", t.Name).Order("pos asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		var r Row
		if err := json.Unmarshal([]byte(rec.Cells), &r); err != nil {
			return nil, fmt.Errorf("corrupt row %d in table %s: %w", rec.Pos, t.Name, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (s *MySQLStore) AppendRow(ctx context.Context, t *Table, values Row) error {
	cells, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos uint32
		row := tx.Model(&sheetRow{}).Where("sheet = ?", t.Name).Select("COALESCE(MAX(pos), 0)").Row()
		if err := row.Scan(&maxPos); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if err := tx.Create(&sheetRow{Sheet: t.Name, Pos: maxPos + 1, Cells: string(cells)}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
}

func (s *MySQLStore) WriteCell(ctx context.Context, t *Table, rowNumber, column int, value string) error {
	if column < 0 {
		return nil
	}
	var rec sheetRow
	if err := s.db.WithContext(ctx).Where("sheet = ? AND pos = ?", t.Name, rowNumber).First(&rec).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var r Row
	if err := json.Unmarshal([]byte(rec.Cells), &r); err != nil {
		return fmt.Errorf("corrupt row %d in table %s: %w", rowNumber, t.Name, err)
	}
	for len(r) <= column {
		r = append(r, "")
	}
	r[column] = value
	cells, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&rec).Update("cells", string(cells)).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MySQLStore) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&sheetRow{}).Distinct("sheet").Order("sheet asc").Pluck("sheet", &names).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return names, nil
}
