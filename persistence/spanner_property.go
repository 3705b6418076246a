package persistence

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

func (persist *Spanner) ReadProperty(ctx context.Context, key string) (string, error) {
	row, err := persist.spanner.Single().ReadRow(ctx, "properties", spanner.Key{key}, []string{"value"})
	if spanner.ErrCode(err) == codes.NotFound {
		return "", nil
	} else if err != nil {
		return "", err
	}
	var value string
	err = row.Column(0, &value)
	return value, err
}

func (persist *Spanner) WriteProperty(ctx context.Context, key, value string) error {
	_, err := persist.spanner.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate("properties", []string{"key", "value", "updated_at"}, []interface{}{key, value, spanner.CommitTimestamp}),
	})
	return err
}
