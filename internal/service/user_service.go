package service

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
)

// UserService manages admin-portal accounts. A non-nil scope limits every call to the
// users of that company; platform administrators pass nil.
type UserService interface {
	CreateUser(scope *uuid.UUID, req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(scope *uuid.UUID, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(scope *uuid.UUID, userID uuid.UUID, deleterID string) error
	UpdateUserPrivileges(scope *uuid.UUID, userID uuid.UUID, privilegeCodes []string) (*model.User, error)
	GetAllUsers(scope *uuid.UUID) ([]model.UserResponse, error)
	GetUserByID(scope *uuid.UUID, id uuid.UUID) (*model.UserResponse, error)
	ListRoles() ([]model.Role, error)
	ListPrivileges() ([]model.Privilege, error)
}

type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number" validate:"max=20"`
	RoleCode    string     `json:"role_code" validate:"required,oneof=PLATFORM_ADMIN COMPANY_ADMIN"`
	CompanyID   *uuid.UUID `json:"company_id"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	RoleCode    string  `json:"role_code" validate:"required,oneof=PLATFORM_ADMIN COMPANY_ADMIN"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	companyRepo   repository.CompanyRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	companyRepo repository.CompanyRepository,
) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		companyRepo:   companyRepo,
	}
}

func (s *userService) CreateUser(scope *uuid.UUID, req *CreateUserRequest, creatorID string) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	companyID := req.CompanyID
	if scope != nil {
		if req.RoleCode == model.RolePlatformAdmin {
			return nil, ErrForbidden
		}
		companyID = scope
	}
	if req.RoleCode == model.RoleCompanyAdmin {
		if companyID == nil {
			return nil, errValidationf("company_id is required for company administrators")
		}
		if _, err := s.companyRepo.FindByID(*companyID); err != nil {
			return nil, lookupErr(err, ErrCompanyNotFound)
		}
	} else {
		companyID = nil
	}

	if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	role, err := s.roleRepo.FindByCode(req.RoleCode)
	if err != nil {
		return nil, lookupErr(err, ErrRoleNotFound)
	}

	user := &model.User{
		CompanyID:   companyID,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, writeErr(err, ErrEmailExists)
	}
	user.Role = role
	return user, nil
}

func (s *userService) UpdateUser(scope *uuid.UUID, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if scope != nil && req.RoleCode == model.RolePlatformAdmin {
		return nil, ErrForbidden
	}

	user, err := s.find(scope, userID)
	if err != nil {
		return nil, err
	}
	if req.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(req.Email); err == nil && existing != nil {
			return nil, ErrEmailExists
		}
	}
	role, err := s.roleRepo.FindByCode(req.RoleCode)
	if err != nil {
		return nil, lookupErr(err, ErrRoleNotFound)
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
		user.TokenVersion = uuid.NewString()
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, writeErr(err, ErrEmailExists)
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(scope *uuid.UUID, userID uuid.UUID, deleterID string) error {
	if _, err := s.find(scope, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(userID, deleterID)
}

func (s *userService) UpdateUserPrivileges(scope *uuid.UUID, userID uuid.UUID, privilegeCodes []string) (*model.User, error) {
	if _, err := s.find(scope, userID); err != nil {
		return nil, err
	}
	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, err
	}
	if len(privileges) != len(privilegeCodes) {
		return nil, errValidationf("unknown privilege code")
	}
	if err := s.userRepo.ReplacePrivileges(userID, privileges); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers(scope *uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(scope)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(scope *uuid.UUID, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.find(scope, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) ListRoles() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

func (s *userService) ListPrivileges() ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll()
}

// find loads a user visible within scope; users of other companies look missing.
func (s *userService) find(scope *uuid.UUID, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	if scope != nil && (user.CompanyID == nil || *user.CompanyID != *scope) {
		return nil, ErrUserNotFound
	}
	return user, nil
}
