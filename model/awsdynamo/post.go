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

var plog *logrus.Entry

func init() {
	plog = logrus.New().WithFields(logrus.Fields{
		"env": "DynamoPostPeer",
	})
}

// All posts live on a single wall partition, sorted by created_at.
const wallID = "1"

type DynamoPostPeer struct {
	model *DynamoModel
}

func (pp *DynamoPostPeer) GetByID(id string) (*model.Post, error) {
	params := &dynamodb.QueryInput{
		TableName:              aws.String("post"),
		IndexName:              aws.String("IDIndex"),
		KeyConditionExpression: aws.String("id = :id"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":id": { // Required
				S: aws.String(id),
			},
		},
		Limit: aws.Int64(1),
	}
	respQuery, err := pp.model.db.Query(params)
	if err != nil {
		return nil, err
	}
	if len(respQuery.Items) == 0 {
		return nil, model.ErrNotFound
	}
	item := respQuery.Items[0]
	if item["wall_id"] == nil || item["created_at"] == nil {
		return nil, fmt.Errorf("Fields 'wall_id' or 'created_at' nil")
	}
	paramsQuery := &dynamodb.GetItemInput{
		Key: map[string]*dynamodb.AttributeValue{
			"wall_id": {
				S: item["wall_id"].S,
			},
			"created_at": {
				N: item["created_at"].N,
			},
		},
		TableName: aws.String("post"),
	}
	resp, err := pp.model.db.GetItem(paramsQuery)
	if err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, model.ErrNotFound
	}

	p := &model.Post{}
	err = unmarshalPost(p, resp.Item)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (pp *DynamoPostPeer) NewPost(uid string) *model.Post {
	return &model.Post{
		ID:        uuid.NewString(),
		User:      uid,
		Likes:     []string{},
		Comments:  []model.Comment{},
		CreatedAt: time.Now(),
	}
}

func (pp *DynamoPostPeer) SaveNew(p *model.Post) error {
	if p == nil {
		return errors.New("Post is nil")
	}
	return pp.put(p, aws.String("attribute_not_exists(created_at)"))
}

// Save overwrites an existing post. The key (wall, created_at) never changes.
func (pp *DynamoPostPeer) Save(p *model.Post) error {
	if p == nil {
		return errors.New("Post is nil")
	}
	return pp.put(p, aws.String("attribute_exists(created_at)"))
}

func (pp *DynamoPostPeer) put(p *model.Post, cond *string) error {
	items := make(map[string]*dynamodb.AttributeValue)
	items["wall_id"] = &dynamodb.AttributeValue{
		S: aws.String(wallID),
	}
	err := marshalPost(p, items)
	if err != nil {
		return err
	}
	params := &dynamodb.PutItemInput{
		Item:                items,
		TableName:           aws.String("post"),
		ConditionExpression: cond,
	}
	_, err = pp.model.db.PutItem(params)
	return err
}

func (pp *DynamoPostPeer) Remove(p *model.Post) error {
	params := &dynamodb.DeleteItemInput{
		Key: map[string]*dynamodb.AttributeValue{
			"wall_id": {
				S: aws.String(wallID),
			},
			"created_at": {
				N: aws.String(strconv.FormatInt(p.CreatedAt.UnixNano(), 10)),
			},
		},
		TableName: aws.String("post"),
	}
	_, err := pp.model.db.DeleteItem(params)
	return err
}

func (pp *DynamoPostPeer) getPosts(lastKey map[string]*dynamodb.AttributeValue) ([]*model.Post, error) {
	params := &dynamodb.QueryInput{
		TableName:              aws.String("post"),
		KeyConditionExpression: aws.String("wall_id = :wid AND created_at <= :now"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":now": {
				N: aws.String(strconv.FormatInt(time.Now().Add(24*time.Hour).UnixNano(), 10)),
			},
			":wid": {
				S: aws.String(wallID),
			},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if lastKey != nil {
		params.ExclusiveStartKey = lastKey
	}
	resp, err := pp.model.db.Query(params)
	if err != nil {
		return nil, err
	}
	posts := make([]*model.Post, 0, len(resp.Items))
	for _, postResp := range resp.Items {
		p := &model.Post{}
		if err := unmarshalPost(p, postResp); err != nil {
			plog.Warnf("Error unmarshal post: %#v", postResp)
			continue
		}
		posts = append(posts, p)
	}
	if resp.LastEvaluatedKey != nil {
		newposts, err := pp.getPosts(resp.LastEvaluatedKey)
		if err != nil {
			return nil, err
		}
		posts = append(posts, newposts...)
	}
	return posts, nil
}

// GetPosts returns all posts on the wall, newest first.
func (pp *DynamoPostPeer) GetPosts() ([]*model.Post, error) {
	return pp.getPosts(nil)
}

func unmarshalPost(p *model.Post, items map[string]*dynamodb.AttributeValue) error {
	if p == nil {
		return errors.New("Undefined post")
	}
	stringAttr(items, "id", &p.ID)
	stringAttr(items, "uid", &p.User)
	stringAttr(items, "text", &p.Text)
	stringAttr(items, "img", &p.Img)
	p.Likes = unmarshalIDs(items["likes"])
	p.Comments = []model.Comment{}
	if v, ok := items["comments"]; ok && v != nil {
		for _, e := range v.L {
			if e == nil || e.M == nil {
				continue
			}
			var c model.Comment
			stringAttr(e.M, "id", &c.ID)
			stringAttr(e.M, "uid", &c.User)
			stringAttr(e.M, "text", &c.Text)
			p.Comments = append(p.Comments, c)
		}
	}
	if v, ok := items["created_at"]; ok && v.N != nil {
		ts, err := unmarshalTime(v)
		if err == nil {
			p.CreatedAt = ts
		} else {
			plog.Warnf("Unable to parse 'created_at' on %s: %s", p.ID, err)
		}
	}
	return nil
}

func marshalPost(p *model.Post, items map[string]*dynamodb.AttributeValue) error {
	if p == nil {
		return errors.New("Undefined post")
	}
	items["id"] = &dynamodb.AttributeValue{S: aws.String(p.ID)}
	items["uid"] = &dynamodb.AttributeValue{S: aws.String(p.User)}
	putString(items, "text", p.Text)
	putString(items, "img", p.Img)
	items["likes"] = marshalIDs(p.Likes)
	comments := make([]*dynamodb.AttributeValue, len(p.Comments))
	for i, c := range p.Comments {
		m := make(map[string]*dynamodb.AttributeValue)
		m["id"] = &dynamodb.AttributeValue{S: aws.String(c.ID)}
		m["uid"] = &dynamodb.AttributeValue{S: aws.String(c.User)}
		m["text"] = &dynamodb.AttributeValue{S: aws.String(c.Text)}
		comments[i] = &dynamodb.AttributeValue{M: m}
	}
	items["comments"] = &dynamodb.AttributeValue{L: comments}
	items["created_at"] = marshalTime(p.CreatedAt)

	return nil
}
