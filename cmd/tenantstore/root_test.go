/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/tenantstore"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tenantstore", cmd.Use)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"serve", "seed", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServeFlags(t *testing.T) {
	cmd := newRootCommand()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	listen := serve.Flags().Lookup("listen")
	require.NotNil(t, listen)
	assert.Equal(t, "l", listen.Shorthand)
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "tenantstore version "+tenantstore.Version)
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tenantstore.yaml")
	dbPath := filepath.Join(dir, "kv.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend: sqlite\nsqlite:\n  path: "+dbPath+"\n"), 0o600))
	t.Setenv("TENANTSTORE_BACKEND", "")
	t.Setenv("TENANTSTORE_SQLITE_PATH", "")
	chdir(t, dir)

	for n := 0; n < 2; n++ {
		cmd := newRootCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--config", cfgPath, "seed"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, "4 users seeded\n", out.String())
	}
}

func TestLoadConfigRejectsLogLevel(t *testing.T) {
	t.Setenv("TENANTSTORE_LOG_LEVEL", "")
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "tenantstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: loud\n"), 0o600))

	_, err := loadConfig(&rootOptions{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logLevel")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
