// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Tables, indexes, and meal-insert triggers for the nutrition log.
package storage

// initSchema creates or updates the database schema. Every statement is
// create-if-not-exists, so re-running on each start is safe.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER CHECK (age > 0 AND age < 150),
		sex TEXT CHECK (sex IN ('male', 'female')),
		height REAL CHECK (height > 0 AND height < 300),
		weight REAL CHECK (weight > 0 AND weight < 500),
		goal TEXT CHECK (goal IN ('lose', 'maintain', 'gain')),
		activity_level TEXT CHECK (activity_level IN ('sedentary', 'light', 'moderate', 'active', 'extra')),
		daily_calorie_target INTEGER CHECK (daily_calorie_target > 0),
		daily_protein_target INTEGER CHECK (daily_protein_target >= 0),
		daily_carbs_target INTEGER CHECK (daily_carbs_target >= 0),
		daily_fat_target INTEGER CHECK (daily_fat_target >= 0),
		calorie_deficit INTEGER,
		maintaining_calorie INTEGER,
		onboarded INTEGER DEFAULT 0,
		streak INTEGER DEFAULT 0,
		longest_streak INTEGER DEFAULT 0,
		last_logged_at DATE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS body_goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		goal_type TEXT CHECK (goal_type IN ('cut', 'bulk', 'maintain', 'recomp')),
		started_at DATE NOT NULL,
		start_weight REAL NOT NULL CHECK (start_weight > 0 AND start_weight < 500),
		target_weight REAL NOT NULL CHECK (target_weight > 0 AND target_weight < 500),
		duration_days INTEGER CHECK (duration_days > 0),
		is_active INTEGER DEFAULT 1,
		completed_at DATE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS barcode_foods (
		barcode TEXT PRIMARY KEY,
		product_name TEXT NOT NULL,
		serving_size REAL NOT NULL CHECK (serving_size > 0),
		serving_unit TEXT NOT NULL,
		calories REAL NOT NULL CHECK (calories >= 0),
		protein REAL NOT NULL CHECK (protein >= 0),
		carbs REAL NOT NULL CHECK (carbs >= 0),
		fat REAL NOT NULL CHECK (fat >= 0),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS weight_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date DATE NOT NULL CHECK (date <= CURRENT_DATE),
		weight REAL NOT NULL CHECK (weight > 0 AND weight < 500),
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS meal_templates (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		items TEXT,
		calories REAL NOT NULL CHECK (calories >= 0 AND calories <= 10000),
		protein REAL NOT NULL CHECK (protein >= 0 AND protein <= 1000),
		carbs REAL NOT NULL CHECK (carbs >= 0 AND carbs <= 1000),
		fat REAL NOT NULL CHECK (fat >= 0 AND fat <= 1000),
		serving_size REAL,
		serving_size_unit TEXT,
		is_favorite INTEGER DEFAULT 0,
		use_count INTEGER DEFAULT 0,
		last_used_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS meals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		total_calories REAL NOT NULL CHECK (total_calories >= 0 AND total_calories <= 10000),
		protein REAL NOT NULL CHECK (protein >= 0 AND protein <= 1000),
		carbs REAL NOT NULL CHECK (carbs >= 0 AND carbs <= 1000),
		fat REAL NOT NULL CHECK (fat >= 0 AND fat <= 1000),
		date DATE NOT NULL CHECK (date <= CURRENT_DATE),
		template_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (template_id) REFERENCES meal_templates(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_body_goals_user_active ON body_goals(user_id, is_active);
	CREATE INDEX IF NOT EXISTS idx_weight_logs_user_date ON weight_logs(user_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_meal_templates_user ON meal_templates(user_id);
	CREATE INDEX IF NOT EXISTS idx_meal_templates_favorite ON meal_templates(user_id, is_favorite);
	CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_meals_template ON meals(template_id);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return err
	}

	// Triggers are part of the meal-insert contract: template usage counters
	// and the user's last_logged_at move atomically with the insert.
	triggers := `
	CREATE TRIGGER IF NOT EXISTS update_template_usage
	AFTER INSERT ON meals
	WHEN NEW.template_id IS NOT NULL
	BEGIN
		UPDATE meal_templates
		SET use_count = use_count + 1,
		    last_used_at = CURRENT_TIMESTAMP
		WHERE id = NEW.template_id;
	END;

	CREATE TRIGGER IF NOT EXISTS update_last_logged
	AFTER INSERT ON meals
	BEGIN
		UPDATE users
		SET last_logged_at = NEW.date
		WHERE id = NEW.user_id
		  AND (last_logged_at IS NULL OR last_logged_at < NEW.date);
	END;
	`

	_, err := d.db.Exec(triggers)
	return err
}
