package handler

import (
	"context"
	"io"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

type stubIdentityService struct {
	signupFn         func(ctx context.Context, email, password, name string) (string, *domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.User, error)
	getUserFn        func(ctx context.Context, id string) (*domain.User, error)
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, email, code, newPassword string) error
	updateProfileFn  func(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error)
	uploadAvatarFn   func(ctx context.Context, userID string, image []byte, contentType string) (*domain.User, error)
}

func (s *stubIdentityService) Signup(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	return s.signupFn(ctx, email, password, name)
}

func (s *stubIdentityService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubIdentityService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubIdentityService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubIdentityService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return s.resetPasswordFn(ctx, email, code, newPassword)
}

func (s *stubIdentityService) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, patch)
}

func (s *stubIdentityService) UploadAvatar(ctx context.Context, userID string, image []byte, contentType string) (*domain.User, error) {
	return s.uploadAvatarFn(ctx, userID, image, contentType)
}

type stubCatalogService struct {
	listFn       func(ctx context.Context, input ports.ListBooksInput) (*ports.ListBooksResult, error)
	getFn        func(ctx context.Context, id string) (*domain.Book, error)
	categoriesFn func(ctx context.Context) ([]string, error)
	typesFn      func(ctx context.Context) ([]string, error)
	openFileFn   func(ctx context.Context, id string) (io.ReadCloser, error)
}

func (s *stubCatalogService) ListBooks(ctx context.Context, input ports.ListBooksInput) (*ports.ListBooksResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubCatalogService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.categoriesFn(ctx)
}

func (s *stubCatalogService) Types(ctx context.Context) ([]string, error) {
	return s.typesFn(ctx)
}

func (s *stubCatalogService) OpenBookFile(ctx context.Context, id string) (io.ReadCloser, error) {
	return s.openFileFn(ctx, id)
}

type stubMembershipService struct {
	listFn   func(ctx context.Context, userID string) ([]*domain.LibraryBook, error)
	addFn    func(ctx context.Context, userID, bookID string) error
	removeFn func(ctx context.Context, userID, bookID string) error
}

func (s *stubMembershipService) ListLibrary(ctx context.Context, userID string) ([]*domain.LibraryBook, error) {
	return s.listFn(ctx, userID)
}

func (s *stubMembershipService) AddToLibrary(ctx context.Context, userID, bookID string) error {
	return s.addFn(ctx, userID, bookID)
}

func (s *stubMembershipService) RemoveFromLibrary(ctx context.Context, userID, bookID string) error {
	return s.removeFn(ctx, userID, bookID)
}

type stubAdminService struct {
	createFn func(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error)
	updateFn func(ctx context.Context, id string, patch ports.UpdateBookInput) (*domain.Book, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubAdminService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	return s.createFn(ctx, input)
}

func (s *stubAdminService) UpdateBook(ctx context.Context, id string, patch ports.UpdateBookInput) (*domain.Book, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubAdminService) DeleteBook(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
