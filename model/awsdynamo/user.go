package awsdynamo

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/blang/posty/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ulog *logrus.Entry

func init() {
	ulog = logrus.New().WithFields(logrus.Fields{
		"env": "DynamoUserPeer",
	})
}

type DynamoUserPeer struct {
	model *DynamoModel
}

func (p *DynamoUserPeer) GetByID(ID string) (*model.User, error) {
	params := &dynamodb.GetItemInput{
		Key: map[string]*dynamodb.AttributeValue{
			"id": { // Required
				S: aws.String(ID),
			},
		},
		TableName:      aws.String("user"),
		ConsistentRead: aws.Bool(true),
	}
	resp, err := p.model.db.GetItem(params)
	if err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, model.ErrNotFound
	}

	u := &model.User{}
	err = unmarshalUser(u, resp.Item)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (p *DynamoUserPeer) GetByUsername(username string) (*model.User, error) {
	params := &dynamodb.QueryInput{
		TableName:              aws.String("user"),
		IndexName:              aws.String("UsernameIndex"),
		KeyConditionExpression: aws.String("username = :name"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":name": {
				S: aws.String(username),
			},
		},
	}

	resp, err := p.model.db.Query(params)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, model.ErrNotFound
	}
	if len(resp.Items) != 1 {
		return nil, fmt.Errorf("Results for username %q: %d", username, len(resp.Items))
	}
	// The index only projects the key, fetch the full item.
	var id string
	stringAttr(resp.Items[0], "id", &id)
	return p.GetByID(id)
}

func (p *DynamoUserPeer) GetUsers() ([]*model.User, error) {
	var users []*model.User
	params := &dynamodb.ScanInput{
		TableName: aws.String("user"),
	}
	err := p.model.db.ScanPages(params, func(page *dynamodb.ScanOutput, last bool) bool {
		for _, item := range page.Items {
			u := &model.User{}
			if err := unmarshalUser(u, item); err != nil {
				ulog.Warnf("Error unmarshal user: %#v", item)
				continue
			}
			users = append(users, u)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func marshalUser(u *model.User, items map[string]*dynamodb.AttributeValue) error {
	if u == nil {
		return errors.New("Undefined user")
	}
	items["id"] = &dynamodb.AttributeValue{S: aws.String(u.ID)}
	items["username"] = &dynamodb.AttributeValue{S: aws.String(u.Username)}
	putString(items, "fullname", u.FullName)
	putString(items, "email", u.Email)
	putString(items, "password", u.PasswordHash)
	putString(items, "bio", u.Bio)
	putString(items, "link", u.Link)
	putString(items, "profile_img", u.ProfileImg)
	putString(items, "cover_img", u.CoverImg)
	items["followers"] = marshalIDs(u.Followers)
	items["following"] = marshalIDs(u.Following)
	items["liked_posts"] = marshalIDs(u.LikedPosts)
	items["created_at"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(u.CreatedAt.Unix(), 10))}
	items["lastlogin"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(u.LastLogin.Unix(), 10))}

	return nil
}

func unmarshalUser(u *model.User, items map[string]*dynamodb.AttributeValue) error {
	if u == nil {
		return errors.New("Undefined user")
	}
	stringAttr(items, "id", &u.ID)
	stringAttr(items, "username", &u.Username)
	stringAttr(items, "fullname", &u.FullName)
	stringAttr(items, "email", &u.Email)
	stringAttr(items, "password", &u.PasswordHash)
	stringAttr(items, "bio", &u.Bio)
	stringAttr(items, "link", &u.Link)
	stringAttr(items, "profile_img", &u.ProfileImg)
	stringAttr(items, "cover_img", &u.CoverImg)
	u.Followers = unmarshalIDs(items["followers"])
	u.Following = unmarshalIDs(items["following"])
	u.LikedPosts = unmarshalIDs(items["liked_posts"])
	if v, ok := items["lastlogin"]; ok {
		if v.N != nil {
			ts64, err := strconv.ParseInt(*v.N, 10, 64)
			if err == nil {
				u.LastLogin = time.Unix(ts64, 0)
			} else {
				ulog.Warnf("Unable to parse 'lastlogin' on %s: %s", u.ID, err)
			}
		}
	}
	if v, ok := items["created_at"]; ok {
		if v.N != nil {
			ts64, err := strconv.ParseInt(*v.N, 10, 64)
			if err == nil {
				u.CreatedAt = time.Unix(ts64, 0)
			} else {
				ulog.Warnf("Unable to parse 'created_at' on %s: %s", u.ID, err)
			}
		}
	}
	return nil
}

func (p *DynamoUserPeer) NewUser() *model.User {
	return &model.User{
		ID:         uuid.NewString(),
		Followers:  []string{},
		Following:  []string{},
		LikedPosts: []string{},
		CreatedAt:  time.Now(),
	}
}

// SaveNew stores a new user. Username uniqueness is checked against the
// index first; the check and the put are not atomic.
func (p *DynamoUserPeer) SaveNew(u *model.User) error {
	if u == nil {
		return errors.New("User is nil")
	}
	if existing, err := p.GetByUsername(u.Username); err == nil && existing != nil {
		return fmt.Errorf("User %q already exists", u.Username)
	}
	return p.put(u, aws.String("attribute_not_exists(id)"))
}

func (p *DynamoUserPeer) Save(u *model.User) error {
	if u == nil {
		return errors.New("User is nil")
	}
	return p.put(u, aws.String("attribute_exists(id)"))
}

func (p *DynamoUserPeer) put(u *model.User, cond *string) error {
	items := make(map[string]*dynamodb.AttributeValue)
	err := marshalUser(u, items)
	if err != nil {
		return err
	}
	params := &dynamodb.PutItemInput{
		Item:                items,
		TableName:           aws.String("user"),
		ConditionExpression: cond,
	}
	_, err = p.model.db.PutItem(params)
	return err
}

func (p *DynamoUserPeer) UpdateLastLogin(id string) error {
	params := &dynamodb.UpdateItemInput{
		TableName: aws.String("user"),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(id),
			},
		},
		UpdateExpression: aws.String("SET lastlogin = :lastlogin"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":lastlogin": {
				N: aws.String(strconv.FormatInt(time.Now().Unix(), 10)),
			},
		},
		ReturnValues: aws.String("ALL_NEW"),
	}

	_, err := p.model.db.UpdateItem(params)
	return err
}
