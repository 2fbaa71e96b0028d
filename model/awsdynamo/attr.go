package awsdynamo

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// Lists keep their order, string sets would not.
func marshalIDs(ids []string) *dynamodb.AttributeValue {
	l := make([]*dynamodb.AttributeValue, len(ids))
	for i, id := range ids {
		l[i] = &dynamodb.AttributeValue{S: aws.String(id)}
	}
	return &dynamodb.AttributeValue{L: l}
}

func unmarshalIDs(v *dynamodb.AttributeValue) []string {
	ids := []string{}
	if v == nil {
		return ids
	}
	for _, e := range v.L {
		if e != nil && e.S != nil {
			ids = append(ids, *e.S)
		}
	}
	return ids
}

func marshalTime(t time.Time) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(t.UnixNano(), 10))}
}

func unmarshalTime(v *dynamodb.AttributeValue) (time.Time, error) {
	ts64, err := strconv.ParseInt(*v.N, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, ts64), nil
}

func stringAttr(items map[string]*dynamodb.AttributeValue, key string, dst *string) {
	if v, ok := items[key]; ok && v != nil && v.S != nil {
		*dst = *v.S
	}
}

func putString(items map[string]*dynamodb.AttributeValue, key, val string) {
	if val != "" {
		items[key] = &dynamodb.AttributeValue{S: aws.String(val)}
	}
}
