package mysql_test

import (
	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	mysqlrepo "royal_palate/internal/storage/mysql"
)

func TestNormalizeDSN_ForcesParseTimeAndUTC(t *testing.T) {
	for _, dsn := range []string{
		"root:root@tcp(localhost:3306)/palate",
		"root:root@tcp(localhost:3306)/palate?parseTime=false&loc=Local&charset=utf8mb4",
	} {
		out, err := mysqlrepo.NormalizeDSN(dsn)
		if err != nil {
			t.Fatalf("%s: %v", dsn, err)
		}
		cfg, err := gomysql.ParseDSN(out)
		if err != nil {
			t.Fatalf("normalized dsn %q does not parse: %v", out, err)
		}
		if !cfg.ParseTime || cfg.Loc != time.UTC {
			t.Fatalf("%s -> %s: parseTime=%v loc=%v", dsn, out, cfg.ParseTime, cfg.Loc)
		}
		if cfg.DBName != "palate" || cfg.Addr != "localhost:3306" || cfg.User != "root" {
			t.Fatalf("connection fields lost: %+v", cfg)
		}
	}
}

func TestNormalizeDSN_RejectsGarbage(t *testing.T) {
	if _, err := mysqlrepo.NormalizeDSN("not a dsn"); err == nil {
		t.Fatalf("expected parse error")
	}
}
