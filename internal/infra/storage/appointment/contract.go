package appointment

import "github.com/m04kA/SMC-SpaBooking/pkg/dbmetrics"

// DBExecutor интерфейс выполнения запросов (*sql.DB или *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor
