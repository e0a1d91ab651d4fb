package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Sternrassler/raydium-pools-bot/internal/config"
	"github.com/Sternrassler/raydium-pools-bot/internal/testutil"
	"github.com/Sternrassler/raydium-pools-bot/pkg/format"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	mock := testutil.NewMockRaydium()
	defer mock.Close()
	mock.SetPools("concentrated", testutil.Pools("clmm", 15)...)

	out, err := executeRoot(t, "list", "--api-base-url", mock.URL(), "--type", "concentrated", "--page", "2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	for _, want := range []string{
		"Page 2 Concentrated Liquidity Pools",
		"clmm11",
		"concentrated_pools_1",
		"concentrated_pools_3",
		"total pages: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := mock.RequestCount(); got != 2 {
		t.Errorf("RequestCount() = %d, want 2", got)
	}
}

func TestListCommand_FirstPageGuard(t *testing.T) {
	mock := testutil.NewMockRaydium()
	defer mock.Close()

	out, err := executeRoot(t, "list", "--api-base-url", mock.URL(), "--page", "0")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, format.FirstPageText) {
		t.Errorf("output = %q, want first page text", out)
	}
	if got := mock.RequestCount(); got != 0 {
		t.Errorf("RequestCount() = %d, want 0", got)
	}
}

func TestListCommand_EmptyPage(t *testing.T) {
	mock := testutil.NewMockRaydium()
	defer mock.Close()

	out, err := executeRoot(t, "list", "--api-base-url", mock.URL(), "--type", "standard")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(out) != format.NoDataText {
		t.Errorf("output = %q, want %q", out, format.NoDataText)
	}
}

func TestListCommand_UnknownType(t *testing.T) {
	if _, err := executeRoot(t, "list", "--type", "legacy"); err == nil {
		t.Error("list succeeded with unknown pool type, want error")
	}
}

func TestRunCommand_RequiresToken(t *testing.T) {
	t.Setenv("POOLBOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	_, err := executeRoot(t, "run")
	if !errors.Is(err, config.ErrMissingToken) {
		t.Errorf("run error = %v, want ErrMissingToken", err)
	}
}
