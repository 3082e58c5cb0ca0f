package registry

import (
	"time"

	"github.com/google/uuid"
)

// Citizen maps to the citizens table. CPF and CNS are unique nationwide;
// the store enforces both. Citizens are never hard-deleted.
type Citizen struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	CPF         string     `db:"cpf" json:"cpf"`
	CNS         string     `db:"cns" json:"cns"`
	BirthDate   time.Time  `db:"birth_date" json:"birth_date"`
	Gender      string     `db:"gender" json:"gender"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	BloodType   *string    `db:"blood_type" json:"blood_type,omitempty"`
	Allergies   []string   `db:"allergies" json:"allergies"`
	UnitID      *uuid.UUID `db:"unit_id" json:"unit_id,omitempty"`
	FamilyGroup *string    `db:"family_group" json:"family_group,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Professional maps to the professionals table.
type Professional struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Specialty *string    `db:"specialty" json:"specialty,omitempty"`
	CNS       string     `db:"cns" json:"cns"`
	CRM       *string    `db:"crm" json:"crm,omitempty"`
	UnitID    *uuid.UUID `db:"unit_id" json:"unit_id,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// HealthUnit maps to the health_units table. CNES is the national
// facility registry code, unique per unit.
type HealthUnit struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CNES      string    `db:"cnes" json:"cnes"`
	Address   string    `db:"address" json:"address"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
