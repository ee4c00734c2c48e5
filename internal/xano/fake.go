package xano

import (
	"context"
	"sync"

	"chargecars-portal/internal/domain"
)

// FakeAuth sustituye al backend de auth en tests y demos locales.
// Cada operacion devuelve el resultado/error configurado y cuenta llamadas.
type FakeAuth struct {
	mu sync.Mutex

	LoginResult  AuthResult
	LoginErr     error
	SignupResult AuthResult
	SignupErr    error
	MeProfile    domain.Profile
	MeErr        error
	// MeHook se ejecuta antes de responder a Me (para simular carreras).
	MeHook func()

	LoginCalls  int
	SignupCalls int
	MeCalls     int
	LastToken   string
	LastSignup  domain.SignupInput
}

func (f *FakeAuth) Login(_ context.Context, _, _ string) (AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	return f.LoginResult, f.LoginErr
}

func (f *FakeAuth) Signup(_ context.Context, input domain.SignupInput) (AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignupCalls++
	f.LastSignup = input
	return f.SignupResult, f.SignupErr
}

func (f *FakeAuth) Me(_ context.Context, token string) (domain.Profile, error) {
	f.mu.Lock()
	f.MeCalls++
	f.LastToken = token
	hook := f.MeHook
	profile, err := f.MeProfile, f.MeErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return profile, err
}

// Calls devuelve el total de llamadas de red simuladas.
func (f *FakeAuth) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoginCalls + f.SignupCalls + f.MeCalls
}
