package config

// Default configuration values.
const (
	DefaultBasePath     = "."
	DefaultTemplatesDir = "templates"
	DefaultTargetType   = "sqlite"
	DefaultDatabase     = "database/database.sqlite"
	DefaultRoutesFile   = "app/Http/routes.php"
	DefaultRouteLine    = "Route::controller('/[[ model_plural ]]', '[[ model_uc ]]Controller');"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"

	DefaultWatchDebounce = "200ms"
)

// Scaffold targets, in generation order.
const (
	TargetModel      = "model"
	TargetController = "controller"
	TargetViewAdd    = "view.add"
	TargetViewShow   = "view.show"
	TargetViewIndex  = "view.index"
)

// Targets lists every scaffold target in generation order.
var Targets = []string{TargetModel, TargetController, TargetViewAdd, TargetViewShow, TargetViewIndex}

// DefaultLayout returns the destination pattern of each target, relative to
// the base path. Patterns are rendered with the scaffold data.
func DefaultLayout() map[string]string {
	return map[string]string{
		TargetModel:      "app/[[ model_uc ]].php",
		TargetController: "app/Http/Controllers/[[ model_uc ]]Controller.php",
		TargetViewAdd:    "resources/views/[[ model_plural ]]/add.blade.php",
		TargetViewShow:   "resources/views/[[ model_plural ]]/show.blade.php",
		TargetViewIndex:  "resources/views/[[ model_plural ]]/index.blade.php",
	}
}

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	if dbType == "postgres" {
		return "public"
	}
	return "main"
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	if t.Type == "postgres" {
		if t.Port == 0 {
			t.Port = 5432
		}
	}
}
