package postgres

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/the127/keyv/internal/keyv"
)

const table = "keyv_entries"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func selectQuery(key string) (string, []any) {
	s := sqlbuilder.Select("value").From(table)
	s.Where(s.Equal("key", key))
	return s.BuildWithFlavor(sqlbuilder.PostgreSQL)
}

func selectManyQuery(keys []string) (string, []any) {
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	s := sqlbuilder.Select("key", "value").From(table)
	s.Where(s.In("key", args...))
	return s.BuildWithFlavor(sqlbuilder.PostgreSQL)
}

func upsertQuery(keys []string, values []string) (string, []any) {
	s := sqlbuilder.InsertInto(table).Cols("key", "value")
	for i, key := range keys {
		s.Values(key, values[i])
	}
	s.SQL("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")
	return s.BuildWithFlavor(sqlbuilder.PostgreSQL)
}

func deleteQuery(key string) (string, []any) {
	s := sqlbuilder.DeleteFrom(table)
	s.Where(s.Equal("key", key))
	return s.BuildWithFlavor(sqlbuilder.PostgreSQL)
}

func clearQuery() (string, []any) {
	return sqlbuilder.DeleteFrom(table).BuildWithFlavor(sqlbuilder.PostgreSQL)
}

func clearNamespaceQuery(namespace string) (string, []any) {
	s := sqlbuilder.DeleteFrom(table)
	s.Where(s.Like("key", likeEscaper.Replace(keyv.NamespacePrefix(namespace))+"%"))
	return s.BuildWithFlavor(sqlbuilder.PostgreSQL)
}
