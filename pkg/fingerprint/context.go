package fingerprint

import "context"

type fingerprintContextKey struct{}

func WithContext(ctx context.Context, fp string) context.Context {
	return context.WithValue(ctx, fingerprintContextKey{}, fp)
}

func FromContext(ctx context.Context) string {
	fp, _ := ctx.Value(fingerprintContextKey{}).(string)
	return fp
}
