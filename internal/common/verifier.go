package common

import (
	"context"
	"errors"

	"github.com/famquest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// AdminVerifier checks the request user against the configured admin list.
type AdminVerifier struct{}

func NewAdminVerifier() *AdminVerifier {
	return &AdminVerifier{}
}

func (v *AdminVerifier) Verify(ctx context.Context) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return errors.New("no authenticated user")
	}

	if !slices.Contains(xcontext.Configs(ctx).AdminIDs, userID) {
		return errors.New("user is not an admin")
	}

	return nil
}
