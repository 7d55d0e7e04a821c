// Command recipes prepares a Recipe Manager database.
//
//	recipes                    # seed (same as `recipes seed`)
//	recipes seed --migrate     # migrate, then seed
//	recipes seed --file x.yaml # seed from another fixture file
//	recipes seed:status        # recipes per category
//	recipes migrate
//	recipes migrate:rollback
//	recipes migrate:status
//
// Settings come from config/app.json, .env and the environment
// (DB_DRIVER, DATABASE_DSN, REDIS_ADDR, PUSHGATEWAY_URL, LOG_MONGO_URI, ...).
package main
