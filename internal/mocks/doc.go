// Package mocks provides function-field mocks of the interfaces shared across
// packages, so handler and service tests can use one set of fakes.
//
// Each mock calls its XxxFn field when set and otherwise falls back to a
// simple default behaviour described on the type:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, store.ErrUserNotFound
//	}
package mocks
