package postgres

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/taskapp/auth-service/internal/domain"
)

type userRow struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	IsTwoFactorEnabled bool
	TwoFactorSecret    string
	BackupCodes        textArray
	CreatedAt          time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:                 ur.ID,
		Name:               ur.Name,
		Email:              ur.Email,
		PasswordHash:       ur.PasswordHash,
		IsTwoFactorEnabled: ur.IsTwoFactorEnabled,
		TwoFactorSecret:    ur.TwoFactorSecret,
		BackupCodes:        []string(ur.BackupCodes),
		CreatedAt:          ur.CreatedAt,
	}
}

// textArray maps a Postgres text[] through database/sql, which hands the
// stdlib driver arrays in literal form ("{A,B}"). Elements here are backup
// codes (uppercase hex), so no escaping is ever needed on the way in;
// quoted elements are still accepted on the way out.
type textArray []string

func (a *textArray) Scan(src any) error {
	var lit string
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case string:
		lit = v
	case []byte:
		lit = string(v)
	default:
		return fmt.Errorf("cannot scan %T into text[]", src)
	}

	lit = strings.TrimSpace(lit)
	if !strings.HasPrefix(lit, "{") || !strings.HasSuffix(lit, "}") {
		return fmt.Errorf("malformed text[] literal %q", lit)
	}
	inner := lit[1 : len(lit)-1]
	if inner == "" {
		*a = []string{}
		return nil
	}

	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.Trim(p, `"`))
	}
	*a = out
	return nil
}

func (a textArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	for _, s := range a {
		if strings.ContainsAny(s, `{},"\`) {
			return nil, fmt.Errorf("unsupported character in text[] element %q", s)
		}
	}
	return "{" + strings.Join(a, ",") + "}", nil
}
