package testutil

import (
	_ "embed"

	"github.com/autom8ter/indexadvisor"
	"github.com/brianvoe/gofakeit/v6"
)

var (
	//go:embed testdata/user.yaml
	UserSchema string
	//go:embed testdata/task.yaml
	TaskSchema string
)

// NewRegistry returns a registry configured with the user and task schemas
func NewRegistry() (*indexadvisor.Registry, error) {
	r := indexadvisor.NewRegistry()
	if err := r.ConfigureCollection([]byte(UserSchema)); err != nil {
		return nil, err
	}
	if err := r.ConfigureCollection([]byte(TaskSchema)); err != nil {
		return nil, err
	}
	return r, nil
}

// NewAdvisor returns an advisor whose registry is configured with the user
// and task schemas
func NewAdvisor(opts ...indexadvisor.Option) (indexadvisor.Advisor, error) {
	a := indexadvisor.New(opts...)
	if err := a.Registry().ConfigureCollection([]byte(UserSchema)); err != nil {
		return nil, err
	}
	if err := a.Registry().ConfigureCollection([]byte(TaskSchema)); err != nil {
		return nil, err
	}
	return a, nil
}

// UserEmailRawQuery is a raw query filtering users on a fake email
func UserEmailRawQuery() indexadvisor.RawQuery {
	return indexadvisor.RawQuery{
		From: "user",
		Filter: map[string]any{
			"contact.email": gofakeit.Email(),
		},
		Projection: map[string]any{
			"_id":           0,
			"contact.email": 1,
		},
	}
}

// TaskUserRawQuery is a raw query filtering tasks on a fake user id and
// sorting on timestamp
func TaskUserRawQuery() indexadvisor.RawQuery {
	return indexadvisor.RawQuery{
		From: "task",
		Filter: map[string]any{
			"user": gofakeit.UUID(),
		},
		Sort: []indexadvisor.RawSort{
			{Field: "timestamp", Direction: -1},
		},
		Limit: 10,
	}
}
