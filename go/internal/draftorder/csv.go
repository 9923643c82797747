package draftorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bnsl/draftd/go/internal/models"
)

// ParseOrderCSV reads draft order rows with a "round,pick,team,label" header.
// Label may be empty. Overall positions are assigned from row order.
func ParseOrderCSV(r io.Reader) ([]models.Pick, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read order header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"round", "pick", "team"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("order csv missing %q column", required)
		}
	}

	var picks []models.Pick
	overall := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read order row %d: %w", overall, err)
		}

		round, err := strconv.Atoi(record[col["round"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad round %q", overall, record[col["round"]])
		}
		pickNum, err := strconv.Atoi(record[col["pick"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad pick %q", overall, record[col["pick"]])
		}
		team := strings.TrimSpace(record[col["team"]])
		if team == "" {
			return nil, fmt.Errorf("row %d: empty team", overall)
		}

		var label string
		if i, ok := col["label"]; ok && i < len(record) {
			label = strings.TrimSpace(record[i])
		}

		picks = append(picks, models.Pick{
			ID:      uuid.New(),
			Round:   round,
			Pick:    pickNum,
			Overall: overall,
			Team:    team,
			Label:   label,
		})
		overall++
	}
	return picks, nil
}
