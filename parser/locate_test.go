package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locate(t *testing.T, name, src string) (*Cleaned, *Container, *ParseError) {
	t.Helper()
	table := mustTable(t, name)
	c, errs := Scan(src, table)
	require.Empty(t, errs)
	ct, err := Locate(c, table)
	return c, ct, err
}

func TestLocateContainers(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		src     string
		call    string
		param   string
		body    string
	}{
		{
			name:    "namespaced php call",
			dialect: "php",
			src:     `\Sentry\init(['dsn' => 'x']);`,
			call:    `\Sentry\init(`,
			body:    `'dsn' => 'x'`,
		},
		{
			name:    "call name inside a string is ignored",
			dialect: "php",
			src:     `echo "init(["; init(['a' => 1]);`,
			call:    "init(",
			body:    "'a' => 1",
		},
		{
			name:    "skipped context argument",
			dialect: "kotlin",
			src:     "SentryAndroid.init(this) { options -> }",
			call:    "SentryAndroid.init(this)",
			body:    " options -> ",
		},
		{
			name:    "prefix binding",
			dialect: "dotnet",
			src:     `SentrySdk.Init(o => { o.Dsn = "x"; });`,
			call:    "SentrySdk.Init(",
			param:   "o",
			body:    ` o.Dsn = "x"; `,
		},
		{
			name:    "opener among call arguments",
			dialect: "rust",
			src:     `let _g = sentry::init(("dsn", sentry::ClientOptions { release: None }));`,
			call:    "sentry::init(",
			body:    " release: None ",
		},
		{
			name:    "labeled closure argument",
			dialect: "swift",
			src:     "SentrySDK.start(configureOptions: { options in options.debug = true })",
			call:    "SentrySDK.start(configureOptions:",
			body:    " options in options.debug = true ",
		},
		{
			name:    "keyword block",
			dialect: "ruby",
			src:     "Sentry.init do |config|\n  if x\n    config.debug = true\n  end\n  config.dsn = 'x'\nend\n",
			call:    "Sentry.init",
			body:    " |config|\n  if x\n    config.debug = true\n  end\n  config.dsn = 'x'\n",
		},
		{
			name:    "failed argument scan does not hide a later call",
			dialect: "rust",
			src:     "sentry::init(dsn);\nlet _g = sentry::init(sentry::ClientOptions { debug: true });",
			call:    "sentry::init(",
			body:    " debug: true ",
		},
		{
			name:    "member call on another receiver is skipped",
			dialect: "javascript",
			src:     "i18n.init({ lng: 'en' });\nSentry.init({ dsn: 'x' });",
			call:    "Sentry.init(",
			body:    " dsn: 'x' ",
		},
		{
			name:    "bare call on a sentry receiver",
			dialect: "javascript",
			src:     "SentryReact.init({ dsn: 'x' });",
			call:    "init(",
			body:    " dsn: 'x' ",
		},
		{
			name:    "python module receiver",
			dialect: "python",
			src:     "logging_lib.init(level=1)\nsentry_sdk.init(dsn='x')",
			call:    "sentry_sdk.init",
			body:    "dsn='x'",
		},
		{
			name:    "php method call is not the sdk function",
			dialect: "php",
			src:     "$hub->init(['a' => 1]);\n\\Sentry\\init(['dsn' => 'x']);",
			call:    `\Sentry\init(`,
			body:    "'dsn' => 'x'",
		},
		{
			name:    "swift start on another object",
			dialect: "swift",
			src:     "engine.start { e in e.run = true }\nstart { options in options.debug = true }",
			call:    "start",
			body:    " options in options.debug = true ",
		},
		{
			name:    "bare container",
			dialect: "javascript",
			src:     `  { dsn: "x" }`,
			body:    ` dsn: "x" `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ct, err := locate(t, tt.dialect, tt.src)
			require.Nil(t, err)
			assert.Equal(t, tt.call, ct.Call)
			assert.Equal(t, tt.param, ct.Param)
			assert.Equal(t, tt.body, ct.Body(c))
			assert.Equal(t, tt.call == "", ct.Fallback())
		})
	}
}

func TestLocateEmptyContainer(t *testing.T) {
	c, ct, err := locate(t, "php", "init([]);")
	require.Nil(t, err)
	assert.Equal(t, "", ct.Body(c))
	assert.Equal(t, 5, ct.Open)
	assert.Equal(t, 7, ct.Close)
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		err       error
		localized bool
		column    int
	}{
		{"no container after call", "init(not valid)", ErrMissingContainer, true, 1},
		{"never closed", "init(['dsn' => 'x'", ErrUnbalancedContainer, true, 6},
		{"no call at all", "hello world", ErrNoBootstrapCall, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ct, err := locate(t, "php", tt.src)
			require.Nil(t, ct)
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, KindStructural, err.Kind)
			assert.Equal(t, tt.localized, err.Localized())
			if tt.localized {
				assert.Equal(t, tt.column, *err.Column)
			}
		})
	}
}

func TestLocateEarliestCallWins(t *testing.T) {
	src := "SentrySDK.start { options in options.debug = true }\nstart { options in options.debug = false }"
	c, ct, err := locate(t, "swift", src)
	require.Nil(t, err)
	assert.Equal(t, "SentrySDK.start", ct.Call)
	assert.True(t, strings.HasSuffix(ct.Body(c), "true "))
}

func TestLocateRejectsForeignReceivers(t *testing.T) {
	for _, src := range []string{"Foo::init(['a' => 1]);", "$client->init(['a' => 1]);"} {
		_, ct, err := locate(t, "php", src)
		require.Nil(t, ct, src)
		require.NotNil(t, err, src)
		assert.True(t, errors.Is(err, ErrNoBootstrapCall), src)
	}
}

func TestReceiverOf(t *testing.T) {
	tests := []struct {
		text string
		at   int
		recv string
		ok   bool
	}{
		{"i18n.init", 5, "i18n", true},
		{"a . init", 4, "a", true},
		{"$hub->init", 6, "$hub", true},
		{"Foo::init", 5, "Foo", true},
		{"foo().init", 6, "", true},
		{"init", 0, "", false},
		{"(init", 1, "", false},
		{"...init", 3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			recv, ok := receiverOf(tt.text, tt.at)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.recv, recv)
		})
	}
}
