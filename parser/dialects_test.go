package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dialectSnippets = map[string]string{
	"php": `<?php
\Sentry\init([
    'dsn' => 'https://public@o0.ingest.sentry.io/0',
    # sampling
    'traces_sample_rate' => floatval(0.25),
    'send_default_pii' => TRUE,
    'before_send' => function (\Sentry\Event $event): ?\Sentry\Event {
        return $event;
    },
    'ignore_exceptions' => [RuntimeException::class],
    'release' => getenv('APP_RELEASE'),
]);
`,
	"javascript": `import * as Sentry from "@sentry/browser";

Sentry.init({
  dsn: "https://public@o0.ingest.sentry.io/0",
  // Performance
  tracesSampleRate: 1.0,
  debug: false,
  integrations: [Sentry.browserTracingIntegration()],
  beforeSend(event, hint) {
    return event;
  },
  tracesSampler: (ctx) => 0.5,
  environment: process.env.NODE_ENV,
  "release": 'web@1.2.3',
});
`,
	"python": `import sentry_sdk
from sentry_sdk.integrations.django import DjangoIntegration

sentry_sdk.init(
    dsn="https://public@o0.ingest.sentry.io/0",
    integrations=[DjangoIntegration()],
    traces_sample_rate=0.2,  # sample 20%
    send_default_pii=True,
    max_breadcrumbs=50,
    before_send=lambda event, hint: event,
    environment=os.environ.get("ENV", "dev"),
)
`,
	"ruby": `Sentry.init do |config|
  config.dsn = ENV['SENTRY_DSN']
  config.breadcrumbs_logger = [:active_support_logger, :http_logger]
  config.traces_sample_rate = 0.5
  config.enabled_environments = %w[production staging]
  config.before_send = lambda do |event, hint|
    event
  end
  config.debug = true; config.environment = 'production'
end
`,
	"go": "err := sentry.Init(sentry.ClientOptions{\n" +
		"\tDsn:              \"https://public@o0.ingest.sentry.io/0\",\n" +
		"\tEnableTracing:    true,\n" +
		"\tTracesSampleRate: 1.0,\n" +
		"\tRelease:          `my-app@1.0.0`,\n" +
		"\tBeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {\n" +
		"\t\treturn event\n" +
		"\t},\n" +
		"\tIgnoreErrors: []string{\"context canceled\"},\n" +
		"})\n",
	"rust": `let _guard = sentry::init(("https://public@o0.ingest.sentry.io/0", sentry::ClientOptions {
    release: sentry::release_name!(),
    traces_sample_rate: 0.2,
    environment: Some("staging".into()),
    send_default_pii: true,
    ..Default::default()
}));
`,
	"dotnet": `SentrySdk.Init(options =>
{
    options.Dsn = "https://public@o0.ingest.sentry.io/0";
    options.TracesSampleRate = 1.0;
    options.Debug = true;
    options.SetBeforeSend((sentryEvent, hint) => sentryEvent);
});
`,
	"swift": `SentrySDK.start { options in
    options.dsn = "https://public@o0.ingest.sentry.io/0"
    options.debug = true
    options.tracesSampleRate = 1.0
    options.beforeSend = { event in
        return event
    }
}
`,
	"kotlin": `SentryAndroid.init(this) { options ->
    options.dsn = "https://public@o0.ingest.sentry.io/0"
    options.tracesSampleRate = 1.0
    options.isDebug = true
    options.setDiagnosticLevel(SentryLevel.ERROR)
}
`,
	"java": `SentryAndroid.init(this, options -> {
  options.setDsn("https://public@o0.ingest.sentry.io/0");
  options.setTracesSampleRate(1.0);
  options.setDebug(true);
  options.setBeforeSend((event, hint) -> {
    return event;
  });
});
`,
}

type wantOption struct {
	key   string
	typ   ValueType
	value any
}

const testDSN = "https://public@o0.ingest.sentry.io/0"

func TestDialectSnippets(t *testing.T) {
	tests := []struct {
		dialect  string
		options  []wantOption
		warnings int
	}{
		{"php", []wantOption{
			{"dsn", TypeString, testDSN},
			{"traces_sample_rate", TypeNumber, 0.25},
			{"send_default_pii", TypeBoolean, true},
			{"before_send", TypeFunction, nil},
			{"ignore_exceptions", TypeArray, true},
			{"release", TypeUnknown, "getenv('APP_RELEASE')"},
		}, 0},
		{"javascript", []wantOption{
			{"dsn", TypeString, testDSN},
			{"tracesSampleRate", TypeNumber, float64(1)},
			{"debug", TypeBoolean, false},
			{"integrations", TypeArray, true},
			{"beforeSend", TypeFunction, nil},
			{"tracesSampler", TypeFunction, "(ctx) => 0.5"},
			{"environment", TypeUnknown, "process.env.NODE_ENV"},
			{"release", TypeString, "web@1.2.3"},
		}, 0},
		{"python", []wantOption{
			{"dsn", TypeString, testDSN},
			{"integrations", TypeArray, true},
			{"traces_sample_rate", TypeNumber, 0.2},
			{"send_default_pii", TypeBoolean, true},
			{"max_breadcrumbs", TypeNumber, float64(50)},
			{"before_send", TypeFunction, "lambda event, hint: event"},
			{"environment", TypeUnknown, `os.environ.get("ENV", "dev")`},
		}, 0},
		{"ruby", []wantOption{
			{"dsn", TypeUnknown, "ENV['SENTRY_DSN']"},
			{"breadcrumbs_logger", TypeArray, true},
			{"traces_sample_rate", TypeNumber, 0.5},
			{"enabled_environments", TypeArray, true},
			{"before_send", TypeFunction, nil},
			{"debug", TypeBoolean, true},
			{"environment", TypeString, "production"},
		}, 0},
		{"go", []wantOption{
			{"Dsn", TypeString, testDSN},
			{"EnableTracing", TypeBoolean, true},
			{"TracesSampleRate", TypeNumber, float64(1)},
			{"Release", TypeString, "my-app@1.0.0"},
			{"BeforeSend", TypeFunction, nil},
			{"IgnoreErrors", TypeArray, true},
		}, 0},
		{"rust", []wantOption{
			{"release", TypeUnknown, "sentry::release_name!()"},
			{"traces_sample_rate", TypeNumber, 0.2},
			{"environment", TypeString, "staging"},
			{"send_default_pii", TypeBoolean, true},
		}, 1},
		{"dotnet", []wantOption{
			{"Dsn", TypeString, testDSN},
			{"TracesSampleRate", TypeNumber, float64(1)},
			{"Debug", TypeBoolean, true},
		}, 1},
		{"swift", []wantOption{
			{"dsn", TypeString, testDSN},
			{"debug", TypeBoolean, true},
			{"tracesSampleRate", TypeNumber, float64(1)},
			{"beforeSend", TypeFunction, nil},
		}, 0},
		{"kotlin", []wantOption{
			{"dsn", TypeString, testDSN},
			{"tracesSampleRate", TypeNumber, float64(1)},
			{"isDebug", TypeBoolean, true},
			{"diagnosticLevel", TypeUnknown, "SentryLevel.ERROR"},
		}, 0},
		{"java", []wantOption{
			{"dsn", TypeString, testDSN},
			{"tracesSampleRate", TypeNumber, float64(1)},
			{"debug", TypeBoolean, true},
			{"beforeSend", TypeFunction, nil},
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			res := mustParser(t, tt.dialect).Parse(dialectSnippets[tt.dialect])
			require.True(t, res.Valid, "errors: %v", res.Errors)
			assert.Len(t, res.Warnings, tt.warnings, "warnings: %v", res.Warnings)

			keys := make([]string, 0, len(tt.options))
			for _, o := range tt.options {
				keys = append(keys, o.key)
			}
			require.Equal(t, keys, res.Options.Keys())

			for _, o := range tt.options {
				v, _ := res.Options.Get(o.key)
				assert.Equal(t, o.typ, v.Type, o.key)
				switch {
				case o.typ == TypeFunction && o.value == nil:
					assert.Equal(t, v.RawText, v.Value, o.key)
				default:
					assert.Equal(t, o.value, v.Value, o.key)
				}
			}
		})
	}
}

func TestAspNetCoreUseSentry(t *testing.T) {
	res := mustParser(t, "csharp").Parse(`builder.WebHost.UseSentry(o => { o.Dsn = "x"; o.SampleRate = 0.5f; });`)
	require.True(t, res.Valid)
	assert.Equal(t, []string{"Dsn", "SampleRate"}, res.Options.Keys())
	rate, _ := res.Options.Get("SampleRate")
	assert.Equal(t, 0.5, rate.Number())
}

func TestDotnetObjectInitializer(t *testing.T) {
	res := mustParser(t, "dotnet").Parse(`SentrySdk.Init(new SentryOptions
{
    Dsn = "https://public@o0.ingest.sentry.io/0",
    TracesSampleRate = 0.2,
    SendDefaultPii = true,
});`)
	require.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"Dsn", "TracesSampleRate", "SendDefaultPii"}, res.Options.Keys())
	rate, _ := res.Options.Get("TracesSampleRate")
	assert.Equal(t, 0.2, rate.Number())
}

func TestDotnetVerbatimString(t *testing.T) {
	res := mustParser(t, "dotnet").Parse(`SentrySdk.Init(o => { o.CacheDirectoryPath = @"C:\cache\"; o.Debug = true; });`)
	require.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, []string{"CacheDirectoryPath", "Debug"}, res.Options.Keys())
	path, _ := res.Options.Get("CacheDirectoryPath")
	assert.Equal(t, TypeString, path.Type)
	assert.Equal(t, `C:\cache\`, path.Value)
}
