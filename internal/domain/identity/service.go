package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jsalud/hospital/internal/platform/auth"
)

var validRoles = map[string]bool{
	auth.RoleAdmin:        true,
	auth.RolePhysician:    true,
	auth.RoleNurse:        true,
	auth.RoleReceptionist: true,
	auth.RolePharmacy:     true,
	auth.RoleLab:          true,
}

type Service struct {
	users    UserRepository
	patients PatientRepository
	tokens   *auth.TokenIssuer
	now      func() time.Time
}

func NewService(users UserRepository, patients PatientRepository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, patients: patients, tokens: tokens, now: time.Now}
}

// -- Users --

// Login checks the credentials, stamps last_login and returns a signed
// session token. Failures are uniform: a missing user and a wrong password
// both surface ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !u.Active {
		return "", nil, ErrInactiveAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to stamp last login")
	}
	return token, u, nil
}

func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if !validRoles[u.Role] {
		return ErrInvalidRole
	}
	if _, err := s.users.GetByUsername(ctx, u.Username); err == nil {
		return ErrDuplicateUsername
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Active = true
	return s.users.Create(ctx, u)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	if !validRoles[u.Role] {
		return ErrInvalidRole
	}
	return s.users.Update(ctx, u)
}

// DeactivateUser disables login without destroying the audit trail.
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.Active = false
	return s.users.Update(ctx, u)
}

// -- Patients --

func (s *Service) RegisterPatient(ctx context.Context, p *Patient) error {
	if _, err := s.patients.GetByNationalID(ctx, p.NationalID); err == nil {
		return ErrDuplicateNational
	}
	p.Active = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	return s.patients.Update(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, q string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, q, limit, offset)
}

// TouchLastConsultation records that the patient was seen now.
func (s *Service) TouchLastConsultation(ctx context.Context, patientID uuid.UUID) error {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	now := s.now()
	p.LastConsultationAt = &now
	return s.patients.Update(ctx, p)
}
