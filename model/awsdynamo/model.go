// Package awsdynamo stores the model in DynamoDB tables `user`, `post` and
// `notification`.
package awsdynamo

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/blang/posty/model"
)

type DynamoModel struct {
	db               dynamodbiface.DynamoDBAPI
	userPeer         *DynamoUserPeer
	postPeer         *DynamoPostPeer
	notificationPeer *DynamoNotificationPeer
}

func NewModelFromSession(s *session.Session) *DynamoModel {
	return NewModel(dynamodb.New(s))
}

// NewModel wraps an existing DynamoDB client.
func NewModel(db dynamodbiface.DynamoDBAPI) *DynamoModel {
	model := &DynamoModel{
		db: db,
	}
	model.userPeer = &DynamoUserPeer{
		model: model,
	}
	model.postPeer = &DynamoPostPeer{
		model: model,
	}
	model.notificationPeer = &DynamoNotificationPeer{
		model: model,
	}
	return model
}

func (m *DynamoModel) UserPeer() model.UserPeer {
	return m.userPeer
}

func (m *DynamoModel) PostPeer() model.PostPeer {
	return model.PostPeer(m.postPeer)
}

func (m *DynamoModel) NotificationPeer() model.NotificationPeer {
	return m.notificationPeer
}
