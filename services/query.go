package services

import (
	"strings"

	"github.com/HSouheill/fieldtrack_backend/models"

	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// timeRange builds an inclusive query range. A plain YYYY-MM-DD end date covers that whole day.
func timeRange(q *repositories.Query, field, from, to string) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return
	}
	q.TimeField = field
	q.From = normaliseBound(from, false)
	q.To = normaliseBound(to, true)
}

func normaliseBound(s string, end bool) string {
	if s == "" {
		return s
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return s
	}
	if end && len(s) == len(utils.DateLayout) {
		return utils.FormatTimestamp(utils.EndOfDay(t))
	}
	return utils.FormatTimestamp(t)
}

// normaliseTimestamp rewrites a client timestamp in the stored UTC layout so
// Mongo's lexical range filters agree with the parsed comparison in memory.
func normaliseTimestamp(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	t, err := utils.ParseTimestamp(value)
	if err != nil {
		return "", models.NewValidationError(field, "must be an ISO-8601 timestamp")
	}
	return utils.FormatTimestamp(t), nil
}
