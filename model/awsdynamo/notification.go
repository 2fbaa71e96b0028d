package awsdynamo

import (
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/blang/posty/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var nlog = logrus.New().WithFields(logrus.Fields{
	"env": "DynamoNotificationPeer",
})

type DynamoNotificationPeer struct {
	model *DynamoModel
}

func (p *DynamoNotificationPeer) GetFor(uid string) ([]*model.Notification, error) {
	params := &dynamodb.QueryInput{
		TableName:              aws.String("notification"),
		IndexName:              aws.String("ToIndex"),
		KeyConditionExpression: aws.String("to_uid = :to"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":to": {
				S: aws.String(uid),
			},
		},
	}
	ns := make([]*model.Notification, 0)
	err := p.model.db.QueryPages(params, func(page *dynamodb.QueryOutput, last bool) bool {
		for _, item := range page.Items {
			n := &model.Notification{}
			if err := unmarshalNotification(n, item); err != nil {
				nlog.Warnf("Error unmarshal notification: %#v", item)
				continue
			}
			ns = append(ns, n)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
	return ns, nil
}

func (p *DynamoNotificationPeer) NewNotification(from, to string, typ model.NotificationType) *model.Notification {
	return &model.Notification{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Type:      typ,
		CreatedAt: time.Now(),
	}
}

func (p *DynamoNotificationPeer) SaveNew(n *model.Notification) error {
	if n == nil {
		return errors.New("Notification is nil")
	}
	items := make(map[string]*dynamodb.AttributeValue)
	if err := marshalNotification(n, items); err != nil {
		return err
	}
	_, err := p.model.db.PutItem(&dynamodb.PutItemInput{
		Item:      items,
		TableName: aws.String("notification"),
	})
	return err
}

func (p *DynamoNotificationPeer) RemoveFor(uid string) error {
	ns, err := p.GetFor(uid)
	if err != nil {
		return err
	}
	for _, n := range ns {
		_, err := p.model.db.DeleteItem(&dynamodb.DeleteItemInput{
			TableName: aws.String("notification"),
			Key: map[string]*dynamodb.AttributeValue{
				"id": {S: aws.String(n.ID)},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func marshalNotification(n *model.Notification, items map[string]*dynamodb.AttributeValue) error {
	if n == nil {
		return errors.New("Undefined notification")
	}
	items["id"] = &dynamodb.AttributeValue{S: aws.String(n.ID)}
	items["from_uid"] = &dynamodb.AttributeValue{S: aws.String(n.From)}
	items["to_uid"] = &dynamodb.AttributeValue{S: aws.String(n.To)}
	items["type"] = &dynamodb.AttributeValue{S: aws.String(string(n.Type))}
	items["read"] = &dynamodb.AttributeValue{BOOL: aws.Bool(n.Read)}
	items["created_at"] = marshalTime(n.CreatedAt)
	return nil
}

func unmarshalNotification(n *model.Notification, items map[string]*dynamodb.AttributeValue) error {
	if n == nil {
		return errors.New("Undefined notification")
	}
	var typ string
	stringAttr(items, "id", &n.ID)
	stringAttr(items, "from_uid", &n.From)
	stringAttr(items, "to_uid", &n.To)
	stringAttr(items, "type", &typ)
	n.Type = model.NotificationType(typ)
	if v, ok := items["read"]; ok && v.BOOL != nil {
		n.Read = *v.BOOL
	}
	if v, ok := items["created_at"]; ok && v.N != nil {
		ts, err := unmarshalTime(v)
		if err != nil {
			return err
		}
		n.CreatedAt = ts
	}
	return nil
}
