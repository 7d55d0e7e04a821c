package seeders

import (
	"context"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// CategoryCount is one line of the seed report.
type CategoryCount struct {
	Name    string
	Recipes int64
}

// Report summarises how recipes are spread over categories.
type Report struct {
	Categories    []CategoryCount
	Uncategorised int64
}

// CategoryReport counts recipes per category, including empty categories,
// ordered by name.
func CategoryReport(ctx context.Context, db *gorm.DB) (Report, error) {
	var rep Report
	db = db.WithContext(ctx)

	query, args, err := sq.Select("c.name AS name", "COUNT(r.id) AS recipes").
		From("categories c").
		LeftJoin("recipes r ON r.category_id = c.id").
		GroupBy("c.id", "c.name").
		OrderBy("c.name").
		ToSql()
	if err != nil {
		return rep, fmt.Errorf("report: build category query: %w", err)
	}
	if err := db.Raw(query, args...).Scan(&rep.Categories).Error; err != nil {
		return rep, fmt.Errorf("report: categories: %w", err)
	}

	query, args, err = sq.Select("COUNT(*)").
		From("recipes").
		Where(sq.Eq{"category_id": nil}).
		ToSql()
	if err != nil {
		return rep, fmt.Errorf("report: build uncategorised query: %w", err)
	}
	if err := db.Raw(query, args...).Scan(&rep.Uncategorised).Error; err != nil {
		return rep, fmt.Errorf("report: uncategorised: %w", err)
	}

	return rep, nil
}

// Write prints the report as a table.
func (r Report) Write(out io.Writer) {
	fmt.Fprintf(out, "%-30s  %s\n", "Category", "Recipes")
	for _, c := range r.Categories {
		fmt.Fprintf(out, "%-30s  %d\n", c.Name, c.Recipes)
	}
	if r.Uncategorised > 0 {
		fmt.Fprintf(out, "%-30s  %d\n", "(none)", r.Uncategorised)
	}
}
