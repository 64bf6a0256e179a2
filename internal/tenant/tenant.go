package tenant

import "time"

type Tenant struct {
	ID        string
	Name      string
	APIKey    string
	Status    string
	CreatedAt time.Time
}
