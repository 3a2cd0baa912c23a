package gateway

import (
	"time"

	"helpdesk-gateway/internal/domain"
)

// odooTimeLayout is the naive-UTC format Odoo uses for datetime fields.
const odooTimeLayout = "2006-01-02 15:04:05"

var ticketFields = []string{"id", "name", "description", "stage_id", "partner_id", "company_id", "create_date"}

// asInt64 reads the numeric shapes the XML-RPC decoder produces.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// asString reads a string field. Odoo sends false for empty text.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asRef reads a many2one field, which arrives as [id, display name] when set
// and false when empty.
func asRef(v any) domain.Ref {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return domain.Ref{}
	}
	return domain.Ref{ID: asInt64(pair[0]), Name: asString(pair[1])}
}

// asTime reads a datetime field. Unset fields arrive as false.
func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(odooTimeLayout, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}

func decodeTicket(r map[string]any) domain.Ticket {
	return domain.Ticket{
		ID:          asInt64(r["id"]),
		Name:        asString(r["name"]),
		Description: asString(r["description"]),
		Stage:       asRef(r["stage_id"]),
		Partner:     asRef(r["partner_id"]),
		Company:     asRef(r["company_id"]),
		CreatedAt:   asTime(r["create_date"]),
	}
}
