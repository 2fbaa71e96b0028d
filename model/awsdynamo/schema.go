package awsdynamo

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

func throughput() *dynamodb.ProvisionedThroughput {
	return &dynamodb.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(1),
		WriteCapacityUnits: aws.Int64(1),
	}
}

func hashKey(name string) []*dynamodb.KeySchemaElement {
	return []*dynamodb.KeySchemaElement{
		{
			AttributeName: aws.String(name),
			KeyType:       aws.String("HASH"),
		},
	}
}

func stringAttrDef(name string) *dynamodb.AttributeDefinition {
	return &dynamodb.AttributeDefinition{AttributeName: aws.String(name), AttributeType: aws.String("S")}
}

// Tables returns the table definitions used by the peers.
func Tables() []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		{
			TableName: aws.String("user"),
			KeySchema: hashKey("id"),
			AttributeDefinitions: []*dynamodb.AttributeDefinition{
				stringAttrDef("id"),
				stringAttrDef("username"),
			},
			ProvisionedThroughput: throughput(),
			GlobalSecondaryIndexes: []*dynamodb.GlobalSecondaryIndex{
				{
					IndexName:             aws.String("UsernameIndex"),
					KeySchema:             hashKey("username"),
					Projection:            &dynamodb.Projection{ProjectionType: aws.String("KEYS_ONLY")},
					ProvisionedThroughput: throughput(),
				},
			},
		},
		{
			TableName: aws.String("post"),
			KeySchema: []*dynamodb.KeySchemaElement{
				{ // Required
					AttributeName: aws.String("wall_id"),
					KeyType:       aws.String("HASH"),
				},
				{ // Required
					AttributeName: aws.String("created_at"),
					KeyType:       aws.String("RANGE"),
				},
			},
			AttributeDefinitions: []*dynamodb.AttributeDefinition{
				stringAttrDef("id"),
				stringAttrDef("wall_id"),
				{
					AttributeName: aws.String("created_at"),
					AttributeType: aws.String("N"),
				},
			},
			ProvisionedThroughput: throughput(),
			GlobalSecondaryIndexes: []*dynamodb.GlobalSecondaryIndex{
				{
					IndexName:             aws.String("IDIndex"),
					KeySchema:             hashKey("id"),
					Projection:            &dynamodb.Projection{ProjectionType: aws.String("KEYS_ONLY")},
					ProvisionedThroughput: throughput(),
				},
			},
		},
		{
			TableName: aws.String("notification"),
			KeySchema: hashKey("id"),
			AttributeDefinitions: []*dynamodb.AttributeDefinition{
				stringAttrDef("id"),
				stringAttrDef("to_uid"),
			},
			ProvisionedThroughput: throughput(),
			GlobalSecondaryIndexes: []*dynamodb.GlobalSecondaryIndex{
				{
					IndexName:             aws.String("ToIndex"),
					KeySchema:             hashKey("to_uid"),
					Projection:            &dynamodb.Projection{ProjectionType: aws.String("ALL")},
					ProvisionedThroughput: throughput(),
				},
			},
		},
	}
}

// CreateTables creates missing tables. Existing tables are left untouched.
func CreateTables(db dynamodbiface.DynamoDBAPI) error {
	for _, t := range Tables() {
		_, err := db.CreateTable(t)
		if err == nil {
			continue
		}
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeResourceInUseException {
			continue
		}
		return err
	}
	return nil
}
