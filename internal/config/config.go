// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/go-playground/validator/v10"
	"github.com/matt-dz/foodgram/internal/password"
)

const (
	configFilePath     = "/data/foodgram.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	defaultPort                = 8080
	defaultHostOrigin          = "http://localhost:8080"
	defaultAppSecretPath       = "/data/secret"
	defaultFileserverVolume    = "/data/media"
	defaultFileserverURLPrefix = "/media"
	defaultLoginRPS            = 1
	defaultLoginBurst          = 5
)

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing implements a cross-field validator for go-playground/validator.
//
// It enforces an “all-or-nothing” rule across a set of fields specified in the
// validation tag parameters. The validator succeeds only if either:
//
//  1. All listed fields have zero values, or
//  2. All listed fields have non-zero values.
//
// Any mixed state, where at least one field is zero-valued and at least one field
// is non-zero, causes validation to fail.
//
// The validator must be attached to a placeholder field and inspects the parent
// struct to perform validation. Field names are provided as a comma- or
// space-separated list via the tag parameter (e.g. `validate:"allornothing=A,B,C"`).
//
// Pointer and interface fields are handled as follows:
//   - A nil pointer or interface is treated as a zero value.
//   - A non-nil pointer or interface is dereferenced until a concrete value is
//     reached, and that value is evaluated using reflect.Value.IsZero.
//
// If the parent value is nil, the parent is not a struct, a referenced field
// does not exist, or no field names are provided, the validation fails to signal
// misconfiguration.
//
// This validator is intended for enforcing atomic field groups in API inputs
// (e.g. ensuring related fields are either all provided or all omitted).
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		// Treat pointers/interfaces as zero if nil, otherwise unwrap
		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		// Mixed state detected → invalid
		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			// Extract the struct name from the namespace
			// e.g., "Config.ObjectStore.Validate" -> "ObjectStore"
			namespace := e.Namespace()
			parts := strings.Split(namespace, ".")
			var structName string
			//nolint:mnd
			if len(parts) >= 2 {
				structName = parts[len(parts)-2]
			}

			var fields string
			switch structName {
			case "ObjectStore":
				fields = "Endpoint, AccessKey, SecretKey, and Bucket"
			case "Database":
				fields = "Port, Host, Database, User, and Password"
			default:
				fields = "all related fields"
			}

			return fmt.Errorf(
				"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
				structName, fields)
		}
	}

	return err
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

type Fileserver struct {
	Volume    string `yaml:"volume"`
	URLPrefix string `yaml:"url_prefix" validate:"omitempty,startswith=/"`
}

// ObjectStore configures an S3-compatible bucket. When it is empty, files
// are kept on the local Fileserver volume instead.
type ObjectStore struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url" validate:"omitempty,url"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint AccessKey SecretKey Bucket"`
}

func (o ObjectStore) Enabled() bool {
	return o.Endpoint != ""
}

type Admin struct {
	Username  string        `yaml:"username" validate:"required_with_all=Email Password,max=150"`
	FirstName string        `yaml:"first_name" validate:"required_with_all=Email Password,max=150"`
	LastName  string        `yaml:"last_name" validate:"required_with_all=Email Password,max=150"`
	Email     string        `yaml:"email" validate:"omitempty,email"`
	Password  AdminPassword `yaml:"password" validate:"omitempty,validateFn"`
}

// Enabled reports whether an admin account should be bootstrapped.
func (a Admin) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

type RateLimit struct {
	// Login requests per second allowed per client address.
	LoginRPS   float64 `yaml:"login_rps" validate:"gte=0"`
	LoginBurst int     `yaml:"login_burst" validate:"gte=0"`
}

type Config struct {
	AppSecret   AppSecret   `yaml:"app_secret"`
	Admin       Admin       `yaml:"admin"`
	Fileserver  Fileserver  `yaml:"fileserver"`
	ObjectStore ObjectStore `yaml:"object_store"`
	Database    Database    `yaml:"database"`
	RateLimit   RateLimit   `yaml:"rate_limit"`
	HostOrigin  string      `yaml:"host_origin" validate:"url"`
	Port        uint16      `yaml:"port"`
	Env         string      `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = string(data)
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseUint16(key, value string) (uint16, error) {
	v, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%q): %w", key, value, err)
	}
	return uint16(v), nil
}

func loadConfigFromEnv() (Config, error) {
	environment := loadWithDefault("ENV", EnvDev)
	hostOrigin := loadWithDefault("HOST_ORIGIN", defaultHostOrigin)
	port := loadWithDefault("PORT", strconv.Itoa(defaultPort))

	// AppSecret
	appSecretValue := AppSecretValue(loadWithDefault("APP_SECRET", ""))
	appSecretPath := loadWithDefault("APP_SECRET_PATH", defaultAppSecretPath)
	appSecretVersion := loadWithDefault("APP_SECRET_VERSION", "1")

	// Database
	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	databaseHost := loadWithDefault("DATABASE_HOST", "localhost")
	databaseDatabase := loadWithDefault("DATABASE", "")
	databaseUser := loadWithDefault("DATABASE_USER", "")
	databasePassword := loadWithDefault("DATABASE_PASSWORD", "")

	// Fileserver
	fileserverVolume := loadWithDefault("FILESERVER_VOLUME", defaultFileserverVolume)
	fileserverURLPrefix := loadWithDefault("FILESERVER_URL_PREFIX", defaultFileserverURLPrefix)

	// Object store
	objectStoreUseSSL := loadWithDefault("OBJECT_STORE_USE_SSL", "false")

	// Rate limit
	loginRPS := loadWithDefault("LOGIN_RATE_LIMIT_RPS", strconv.FormatFloat(defaultLoginRPS, 'f', -1, 64))
	loginBurst := loadWithDefault("LOGIN_RATE_LIMIT_BURST", strconv.Itoa(defaultLoginBurst))

	conf := Config{
		HostOrigin: hostOrigin,
		Env:        environment,
	}
	if p, err := parseUint16("PORT", port); err != nil {
		return conf, err
	} else {
		conf.Port = p
	}

	// Load App Secret
	conf.AppSecret = AppSecret{
		Path:    appSecretPath,
		Version: appSecretVersion,
	}
	if appSecretValue == "" {
		conf.AppSecret.Value = nil
	} else {
		conf.AppSecret.Value = &appSecretValue
	}

	// Load Database
	conf.Database = Database{
		Host:     databaseHost,
		Database: databaseDatabase,
		User:     databaseUser,
		Password: databasePassword,
	}
	if p, err := parseUint16("DATABASE_PORT", databasePort); err != nil {
		return conf, err
	} else {
		conf.Database.Port = p
	}

	// Load fileserver
	conf.Fileserver = Fileserver{
		Volume:    fileserverVolume,
		URLPrefix: fileserverURLPrefix,
	}

	// Load object store
	conf.ObjectStore = ObjectStore{
		Endpoint:  loadWithDefault("OBJECT_STORE_ENDPOINT", ""),
		AccessKey: loadWithDefault("OBJECT_STORE_ACCESS_KEY", ""),
		SecretKey: loadWithDefault("OBJECT_STORE_SECRET_KEY", ""),
		Bucket:    loadWithDefault("OBJECT_STORE_BUCKET", ""),
		Region:    loadWithDefault("OBJECT_STORE_REGION", ""),
		PublicURL: loadWithDefault("OBJECT_STORE_PUBLIC_URL", ""),
	}
	if b, err := strconv.ParseBool(objectStoreUseSSL); err != nil {
		return conf, fmt.Errorf("invalid OBJECT_STORE_USE_SSL (%q): %w", objectStoreUseSSL, err)
	} else {
		conf.ObjectStore.UseSSL = b
	}

	// Load rate limit
	if rps, err := strconv.ParseFloat(loginRPS, 64); err != nil {
		return conf, fmt.Errorf("invalid LOGIN_RATE_LIMIT_RPS (%q): %w", loginRPS, err)
	} else {
		conf.RateLimit.LoginRPS = rps
	}
	if burst, err := strconv.Atoi(loginBurst); err != nil {
		return conf, fmt.Errorf("invalid LOGIN_RATE_LIMIT_BURST (%q): %w", loginBurst, err)
	} else {
		conf.RateLimit.LoginBurst = burst
	}

	// Load Admin
	conf.Admin = Admin{
		Username:  loadWithDefault("ADMIN_USERNAME", ""),
		FirstName: loadWithDefault("ADMIN_FIRST_NAME", ""),
		LastName:  loadWithDefault("ADMIN_LAST_NAME", ""),
		Email:     loadWithDefault("ADMIN_EMAIL", ""),
		Password:  AdminPassword(loadWithDefault("ADMIN_PASSWORD", "")),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	if err := validate.Struct(conf); err != nil {
		return conf, formatValidationError(err)
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	// Read file
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal into config
	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = defaultAppSecretPath
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = defaultHostOrigin
	}
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Fileserver.Volume == "" {
		config.Fileserver.Volume = defaultFileserverVolume
	}
	if config.Fileserver.URLPrefix == "" {
		config.Fileserver.URLPrefix = defaultFileserverURLPrefix
	}
	if config.RateLimit.LoginRPS == 0 {
		config.RateLimit.LoginRPS = defaultLoginRPS
	}
	if config.RateLimit.LoginBurst == 0 {
		config.RateLimit.LoginBurst = defaultLoginBurst
	}

	// Validate config
	validate := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(validate)
	if err := validate.Struct(config); err != nil {
		return Config{}, formatValidationError(err)
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

// LoadConfig reads the YAML config file if one exists and falls back to
// environment variables otherwise. CONFIG_PATH overrides the file location.
func LoadConfig() (Config, error) {
	path := loadWithDefault("CONFIG_PATH", configFilePath)
	if configFileExists(path) {
		return loadConfigFromFile(path)
	}

	return loadConfigFromEnv()
}
