package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidPassphrase    = errors.New("invalid admin registration passphrase")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrWeakPassword         = errors.New("password does not satisfy the password policy")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrCourseNotFound       = errors.New("course not found")
	ErrContentNotFound      = errors.New("content not found")
	ErrNotAssigned          = errors.New("course not assigned to user")
	ErrNoTest               = errors.New("course has no test")
	ErrContentIncomplete    = errors.New("course content not completed")
	ErrTestAlreadyPassed    = errors.New("test already passed")
	ErrInvalidAnswers       = errors.New("invalid answers")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrCategoryInUse        = errors.New("category is referenced by courses")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrResetNotFound        = errors.New("password reset request not found")
	ErrResetNotPending      = errors.New("password reset request already processed")
	ErrResetTokenInvalid    = errors.New("invalid or expired reset token")
	ErrInvalidBackup        = errors.New("invalid backup file")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrInvalidAnswerKey     = errors.New("invalid answer key")
	ErrAdminUndeletable     = errors.New("admin accounts cannot be deleted")
	ErrInvalidInput         = errors.New("invalid input")
)
