package service

import (
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/jwt"

	"github.com/google/uuid"
)

// sessionIdleTimeout ends admin sessions that stop sending heartbeats.
const sessionIdleTimeout = 30 * time.Minute

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	// EmployeeLogin authenticates a terminal operator by barcode and PIN.
	EmployeeLogin(req *EmployeeLoginRequest) (*EmployeeLoginResponse, error)
	ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error
	// Authenticate validates a bearer token and checks the subject is still allowed in.
	Authenticate(tokenString string) (*jwt.Claims, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type EmployeeLoginRequest struct {
	CompanyID uuid.UUID `json:"company_id" validate:"uuid_required"`
	Barcode   string    `json:"barcode" validate:"required"`
	Pin       string    `json:"pin" validate:"required"`
}

type EmployeeLoginResponse struct {
	Token      string          `json:"token"`
	Employee   *model.Employee `json:"employee"`
	Shift      *model.Shift    `json:"shift,omitempty"`
	Privileges []string        `json:"privileges"`
}

type authService struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	shiftRepo    repository.ShiftRepository
	tokens       *jwt.Manager
	notifier     Notifier
	now          clock
}

func NewAuthService(
	userRepo repository.UserRepository,
	employeeRepo repository.EmployeeRepository,
	shiftRepo repository.ShiftRepository,
	tokens *jwt.Manager,
	notifier Notifier,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		tokens:       tokens,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// One session per user: a new version invalidates older tokens.
	now := s.now()
	user.TokenVersion = uuid.NewString()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	privileges := user.GetPrivilegeCodes()
	token, err := s.tokens.GenerateToken(jwt.Claims{
		SubjectID:    user.ID,
		Kind:         jwt.SubjectUser,
		CompanyID:    user.CompanyID,
		Name:         user.FullName,
		Email:        user.Email,
		RoleCode:     roleCode,
		Privileges:   privileges,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) EmployeeLogin(req *EmployeeLoginRequest) (*EmployeeLoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByBarcode(req.CompanyID, req.Barcode)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrUserInactive
	}
	if !employee.CheckPin(req.Pin) {
		return nil, ErrInvalidCredentials
	}

	privileges := model.EmployeePrivileges
	if employee.IsManager {
		privileges = model.ManagerPrivileges
	}
	companyID := employee.CompanyID
	token, err := s.tokens.GenerateToken(jwt.Claims{
		SubjectID:  employee.ID,
		Kind:       jwt.SubjectEmployee,
		CompanyID:  &companyID,
		Name:       employee.Name,
		IsManager:  employee.IsManager,
		Privileges: privileges,
	})
	if err != nil {
		return nil, err
	}

	resp := &EmployeeLoginResponse{Token: token, Employee: employee, Privileges: privileges}
	if shift, err := s.shiftRepo.FindOpenByEmployee(employee.CompanyID, employee.ID); err == nil {
		resp.Shift = shift
	}
	return resp, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errValidationf("new password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return lookupErr(err, ErrUserNotFound)
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) Authenticate(tokenString string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrSessionExpired
	}

	switch claims.Kind {
	case jwt.SubjectEmployee:
		if claims.CompanyID == nil {
			return nil, ErrSessionExpired
		}
		employee, err := s.employeeRepo.FindByID(*claims.CompanyID, claims.SubjectID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrSessionExpired
			}
			return nil, err
		}
		if !employee.IsActive {
			return nil, ErrUserInactive
		}
		return claims, nil

	case jwt.SubjectUser:
		user, err := s.userRepo.FindByID(claims.SubjectID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrSessionExpired
			}
			return nil, err
		}
		if !user.IsActive {
			return nil, ErrUserInactive
		}
		if user.TokenVersion != claims.TokenVersion {
			return nil, ErrSessionExpired
		}
		if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > sessionIdleTimeout {
			return nil, ErrSessionExpired
		}
		// Privileges may have changed since the token was issued.
		claims.Privileges = user.GetPrivilegeCodes()
		return claims, nil
	}
	return nil, ErrSessionExpired
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.TouchLastSeen(userID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return lookupErr(err, ErrUserNotFound)
	}
	if user.CompanyID != nil {
		publish(s.notifier, *user.CompanyID, map[string]interface{}{
			"type":         "user_status_update",
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": s.now(),
		})
	}
	return nil
}
