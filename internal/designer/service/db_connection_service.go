package service

import (
	"database/sql"
	"fmt"
	"time"

	"studio/internal/designer/handler/response"
	"studio/internal/designer/models"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// TestDatabaseConnection tests if the connection described by meta can be established
func TestDatabaseConnection(meta *models.DatabaseMeta) response.TestConnectionResult {
	db, err := sql.Open(meta.GetDriverName(), meta.BuildConnectionString())
	if err != nil {
		return response.TestConnectionResult{
			Success: false,
			Message: fmt.Sprintf("Failed to open connection: %v", err),
		}
	}
	defer db.Close()

	db.SetConnMaxLifetime(10 * time.Second)
	db.SetMaxOpenConns(1)

	return pingDatabase(db, meta.Type)
}

func pingDatabase(db *sql.DB, dbType models.DBType) response.TestConnectionResult {
	if err := db.Ping(); err != nil {
		return response.TestConnectionResult{
			Success: false,
			Message: fmt.Sprintf("Failed to ping database: %v", err),
		}
	}

	var version string
	if query := getVersionQuery(dbType); query != "" {
		if err := db.QueryRow(query).Scan(&version); err != nil {
			version = "Unknown"
		}
	}

	return response.TestConnectionResult{
		Success: true,
		Message: "Connection successful",
		Version: version,
	}
}

func getVersionQuery(dbType models.DBType) string {
	switch dbType {
	case models.DBTypePostgres, models.DBTypeMySQL:
		return "SELECT version()"
	case models.DBTypeSQLServer:
		return "SELECT @@VERSION"
	default:
		return ""
	}
}
