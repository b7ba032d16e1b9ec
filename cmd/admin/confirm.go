package main

import (
	"context"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
)

type assumeYesKey struct{}

func withAssumeYes(ctx context.Context) context.Context {
	return context.WithValue(ctx, assumeYesKey{}, true)
}

// skipWhenAssumed approves without asking when the command ran with --yes.
func skipWhenAssumed(next dashboard.Confirmer) dashboard.Confirmer {
	return dashboard.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if yes, _ := ctx.Value(assumeYesKey{}).(bool); yes {
			return true, nil
		}
		return next.Confirm(ctx, prompt)
	})
}
