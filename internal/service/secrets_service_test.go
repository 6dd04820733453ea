package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSetAndReadKeyStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.addParent(t, "casey")

	status, err := env.secrets.GetKeyStatus(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetKeyStatus() error = %v", err)
	}
	if status.Configured {
		t.Error("Configured = true before any key was stored")
	}

	key := "sk-proj-abcdefghijklmnop"
	if err := env.secrets.SetProviderKey(ctx, parent.ID, key); err != nil {
		t.Fatalf("SetProviderKey() error = %v", err)
	}

	status, err = env.secrets.GetKeyStatus(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetKeyStatus() error = %v", err)
	}
	if !status.Configured {
		t.Error("Configured = false after storing a key")
	}
	if status.MaskedTail != "...mnop" {
		t.Errorf("MaskedTail = %q, want ...mnop", status.MaskedTail)
	}
	// The status must never carry the key itself.
	if strings.Contains(status.MaskedTail, key) {
		t.Error("masked tail contains the full key")
	}
}

func TestSetProviderKeyReplacesAndClears(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.addParent(t, "casey")

	if err := env.secrets.SetProviderKey(ctx, parent.ID, "sk-proj-first111"); err != nil {
		t.Fatalf("SetProviderKey() error = %v", err)
	}
	if err := env.secrets.SetProviderKey(ctx, parent.ID, "sk-proj-second22"); err != nil {
		t.Fatalf("SetProviderKey() replace error = %v", err)
	}

	stored, err := env.secretsRepo.GetProviderKey(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetProviderKey() error = %v", err)
	}
	if stored != "sk-proj-second22" {
		t.Errorf("stored key = %q, want the replacement", stored)
	}

	if err := env.secrets.SetProviderKey(ctx, parent.ID, ""); err != nil {
		t.Fatalf("SetProviderKey() clear error = %v", err)
	}
	status, err := env.secrets.GetKeyStatus(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetKeyStatus() error = %v", err)
	}
	if status.Configured {
		t.Error("Configured = true after clearing the key")
	}
}

func TestSetProviderKeyParentOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.addParent(t, "casey")
	child := env.addChild(t, parent.ID, "sammy", "8-10")

	if err := env.secrets.SetProviderKey(ctx, child.ID, "sk-proj-sneaky123"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("child SetProviderKey error = %v, want ErrNotAuthorized", err)
	}
	if _, err := env.secrets.GetKeyStatus(ctx, child.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("child GetKeyStatus error = %v, want ErrNotAuthorized", err)
	}
}

func TestSetProviderKeyRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.addParent(t, "casey")

	if err := env.secrets.SetProviderKey(ctx, parent.ID, "short"); err == nil {
		t.Error("expected error for implausibly short key")
	}
}
