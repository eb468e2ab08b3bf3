package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/domain"
)

// Bootstrap creates the users and roles tables if they don't already exist
// and seeds the default roles. Safe to call on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) {
	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:   aws.String(tables.Users),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("user_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("email-index", "email", ""),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:   aws.String(tables.Roles),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("role_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("role_id"), KeyType: types.KeyTypeHash},
		},
	})

	seedRoles(ctx, client, tables.Roles)
}

// seedRoles inserts the default roles when they are missing, so RBAC works
// on a fresh deployment without manual setup.
func seedRoles(ctx context.Context, client *dynamodb.Client, tableName string) {
	repo := NewRoleRepo(client, tableName)
	defaults := []domain.Role{
		{
			RoleID: domain.RoleAdmin,
			Name:   "Administrator",
			Enable: true,
			Permissions: []string{
				"auth:read:users",
				"auth:write:users",
				"auth:read:roles",
				"auth:write:roles",
			},
		},
		{
			RoleID: domain.RoleStaff,
			Name:   "Staff",
			Enable: true,
			Permissions: []string{
				"auth:read:users",
			},
		},
	}
	for i := range defaults {
		if _, err := repo.Get(ctx, defaults[i].RoleID); err == nil {
			continue
		}
		if err := repo.Put(ctx, &defaults[i]); err != nil {
			slog.Warn("could not seed role", "role_id", defaults[i].RoleID, "err", err)
		} else {
			slog.Info("seeded role", "role_id", defaults[i].RoleID)
		}
	}
}

// gsi builds a GSI descriptor. If sortKey is empty, only a hash key is added.
func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	ks := []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
	}
	if sortKey != "" {
		ks = append(ks, types.KeySchemaElement{
			AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange,
		})
	}
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(indexName),
		KeySchema:  ks,
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists — that's fine.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
	} else {
		slog.Info("created table", "table", *input.TableName)
	}
}
