// Package db stores score summaries in a DynamoDB table keyed by filename.
package db

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/model"
	"github.com/pkg/errors"
)

// BatchGetItem accepts at most this many keys per request.
const maxBatch = 100

type Client struct {
	api   dynamodbiface.DynamoDBAPI
	table string
}

// New connects to the endpoint and table from the environment.
func New() (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetRegion()),
		Endpoint: aws.String(constants.GetDynamoEndpoint()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating DynamoDB session")
	}
	return NewWithAPI(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

func NewWithAPI(api dynamodbiface.DynamoDBAPI, table string) *Client {
	return &Client{api: api, table: table}
}

func (c *Client) PutSummary(ctx context.Context, s model.ScoreSummary) error {
	if s.Filename == "" {
		return errors.New("summary has no filename")
	}
	_, err := c.api.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      toItem(s),
	})
	if err != nil {
		return errors.Wrapf(err, "putting summary for %v", s.Filename)
	}
	return nil
}

// GetSummaries looks up summaries by filename. Missing filenames are left
// out of the result.
func (c *Client) GetSummaries(ctx context.Context, filenames []string) (map[string]model.ScoreSummary, error) {
	res := make(map[string]model.ScoreSummary)

	for start := 0; start < len(filenames); start += maxBatch {
		end := start + maxBatch
		if end > len(filenames) {
			end = len(filenames)
		}

		var keys []map[string]*dynamodb.AttributeValue
		for _, filename := range filenames[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(filename)},
			})
		}

		out, err := c.api.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				c.table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "error from DynamoDB")
		}

		for _, item := range out.Responses[c.table] {
			s := fromItem(item)
			res[s.Filename] = s
		}
	}

	return res, nil
}

func toItem(s model.ScoreSummary) map[string]*dynamodb.AttributeValue {
	num := func(v float64) *dynamodb.AttributeValue {
		return &dynamodb.AttributeValue{N: aws.String(strconv.FormatFloat(v, 'f', -1, 64))}
	}
	item := map[string]*dynamodb.AttributeValue{
		"PK":            {S: aws.String(s.Filename)},
		"Parts":         num(float64(s.Parts)),
		"Measures":      num(float64(s.Measures)),
		"Notes":         num(float64(s.Notes)),
		"Chords":        num(float64(s.Chords)),
		"Rests":         num(float64(s.Rests)),
		"TotalDuration": num(s.TotalDuration),
	}
	// DynamoDB rejects empty string attributes on older endpoints
	if s.Title != "" {
		item["Title"] = &dynamodb.AttributeValue{S: aws.String(s.Title)}
	}
	if s.Variant != "" {
		item["Variant"] = &dynamodb.AttributeValue{S: aws.String(s.Variant)}
	}
	if s.Version != "" {
		item["Version"] = &dynamodb.AttributeValue{S: aws.String(s.Version)}
	}
	return item
}

func fromItem(item map[string]*dynamodb.AttributeValue) model.ScoreSummary {
	str := func(key string) string {
		if v, ok := item[key]; ok && v.S != nil {
			return *v.S
		}
		return ""
	}
	num := func(key string) float64 {
		if v, ok := item[key]; ok && v.N != nil {
			f, _ := strconv.ParseFloat(*v.N, 64)
			return f
		}
		return 0
	}

	return model.ScoreSummary{
		Filename:      str("PK"),
		Title:         str("Title"),
		Version:       str("Version"),
		Variant:       str("Variant"),
		Parts:         int(num("Parts")),
		Measures:      int(num("Measures")),
		Notes:         int(num("Notes")),
		Chords:        int(num("Chords")),
		Rests:         int(num("Rests")),
		TotalDuration: num("TotalDuration"),
	}
}
