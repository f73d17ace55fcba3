package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/equilibrar/core"
)

// Roles
const (
	RoleAdmin        = "admin"
	RoleCoordinator  = "coordinator"
	RoleProfessional = "professional"
	RoleClient       = "client"
)

var (
	StaffRoles = []string{RoleAdmin, RoleCoordinator, RoleProfessional}
	AllRoles   = []string{RoleAdmin, RoleCoordinator, RoleProfessional, RoleClient}

	rolePriorities = map[string]int{
		RoleAdmin:        40,
		RoleCoordinator:  30,
		RoleProfessional: 20,
		RoleClient:       10,
	}

	Roles = []Role{
		{Name: "Paciente", Value: RoleClient},
		{Name: "Profesional", Value: RoleProfessional},
		{Name: "Coordinador", Value: RoleCoordinator},
		{Name: "Administrador", Value: RoleAdmin},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	ProgramIDs   []string  `json:"program_ids,omitempty"` // programs a professional attends
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies pwd against the stored hash. Accounts without a
// password set accept any password (demo/legacy accounts; the frontend always
// sends one).
func (u *User) CheckPassword(pwd string) error {
	if len(u.PasswordHash) == 0 {
		return nil
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool        { return u.Role == RoleAdmin }
func (u *User) IsCoordinator() bool  { return u.Role == RoleCoordinator }
func (u *User) IsProfessional() bool { return u.Role == RoleProfessional }
func (u *User) IsClient() bool       { return u.Role == RoleClient }

// IsStaff reports whether the user holds any back-office role.
func (u *User) IsStaff() bool { return u.Role != "" && u.Role != RoleClient }

// Profile holds the administrative/clinical data of a client account.
type Profile struct {
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id,omitempty"` // DNI/RUT
	Phone      string `json:"phone,omitempty"`
	Isapre     string `json:"isapre,omitempty"`
	Insurance  string `json:"insurance,omitempty"` // complementary insurance
	Address    string `json:"address,omitempty"`
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Email           string   `json:"email" validate:"required,email"`
	Role            string   `json:"role" validate:"required,role"`
	ProgramIDs      []string `json:"program_ids" validate:"omitempty,dive,required"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nil, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Zero-valued fields are left untouched.
type UpdateUser struct {
	Name            string   `json:"name" validate:"omitempty,min=2"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Role            string   `json:"role" validate:"omitempty,role"`
	IsActive        *bool    `json:"is_active"`
	ProgramIDs      []string `json:"program_ids" validate:"omitempty,dive,required"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness([]User{origUsr}, uu.Email)
}

// UpdateProfile defines the editable client profile fields.
type UpdateProfile struct {
	DocumentID string `json:"document_id" validate:"omitempty,min=5"`
	Phone      string `json:"phone" validate:"omitempty,phone_"`
	Isapre     string `json:"isapre"`
	Insurance  string `json:"insurance"`
	Address    string `json:"address" validate:"omitempty,min=5"`
}

func (up *UpdateProfile) Validate() error {
	up.DocumentID = core.CleanString(up.DocumentID)
	up.Phone = core.CleanString(up.Phone)
	up.Isapre = core.CleanString(up.Isapre)
	up.Insurance = core.CleanString(up.Insurance)
	up.Address = core.CleanString(up.Address)
	return core.Validate.Struct(up)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
