package user

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/trezcool/equilibrar/core"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error

		GetProfile(ctx context.Context, userID string) (Profile, error)
		UpsertProfile(ctx context.Context, prof Profile) (Profile, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) CheckUniqueness(exclUsers []User, email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:       nu.Name,
		Email:      nu.Email,
		Role:       nu.Role,
		ProgramIDs: nu.ProgramIDs,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if nu.Password != "" {
		if err := usr.SetPassword(nu.Password); err != nil {
			return User{}, err
		}
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}

	// client accounts also get an empty profile, filled in later by the coordinator
	if usr.IsClient() {
		if _, err = svc.repo.UpsertProfile(ctx, Profile{UserID: usr.ID}); err != nil {
			return User{}, err
		}
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllUsers(ctx)
	}
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:         id,
		Name:       uu.Name,
		Email:      uu.Email,
		Role:       uu.Role,
		ProgramIDs: uu.ProgramIDs,
		UpdatedAt:  time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, User{ID: usr.ID, LastLogin: usr.LastLogin}, nil)
}

func (svc *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfile(ctx, userID)
}

func (svc *Service) UpdateProfile(ctx context.Context, userID string, up UpdateProfile) (Profile, error) {
	return svc.repo.UpsertProfile(ctx, Profile{
		UserID:     userID,
		DocumentID: up.DocumentID,
		Phone:      up.Phone,
		Isapre:     up.Isapre,
		Insurance:  up.Insurance,
		Address:    up.Address,
	})
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

// Authenticate checks the credentials of an account. It does not look at
// IsActive; the API login handler rejects deactivated accounts separately
// so they get a distinct error.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return svc.sendPasswordResetMail(usr)
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) (User, error) {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return User{}, errInvalidToken
	}
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(ctx, usr, nil)
}

func (svc *Service) sendWelcomeMail(usr User) {
	if usr.Email == "" || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Bienvenido/a a Equilibrar",
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{usr.Name},
	})
}

func (svc *Service) sendPasswordResetMail(usr User) error {
	token, err := MakeToken(usr)
	if err != nil {
		return err
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Restablecer contraseña",
		TemplateName: "password_reset",
		TemplateData: struct{ Name, UID, Token string }{usr.Name, EncodeUID(usr), token},
	})
	return nil
}
