package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scoreline/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches []int
}

func newFake() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.items[aws.StringValue(in.Item["PK"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItemWithContext(_ aws.Context, in *dynamodb.BatchGetItemInput, _ ...request.Option) (*dynamodb.BatchGetItemOutput, error) {
	out := &dynamodb.BatchGetItemOutput{Responses: make(map[string][]map[string]*dynamodb.AttributeValue)}
	for table, ka := range in.RequestItems {
		f.batches = append(f.batches, len(ka.Keys))
		for _, key := range ka.Keys {
			if item, ok := f.items[aws.StringValue(key["PK"].S)]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestPutAndGetSummaries(t *testing.T) {
	fake := newFake()
	c := NewWithAPI(fake, "summaries")
	ctx := context.Background()

	s := model.ScoreSummary{
		Filename:      "scores/minuet.musicxml",
		Title:         "Minuet",
		Version:       "3.1",
		Variant:       "partwise",
		Parts:         2,
		Measures:      3,
		Notes:         9,
		Chords:        1,
		Rests:         1,
		TotalDuration: 6000.5,
	}
	require.NoError(t, c.PutSummary(ctx, s))

	res, err := c.GetSummaries(ctx, []string{"scores/minuet.musicxml", "scores/missing.xml"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.ScoreSummary{"scores/minuet.musicxml": s}, res)
}

func TestPutRequiresFilename(t *testing.T) {
	c := NewWithAPI(newFake(), "summaries")
	assert.Error(t, c.PutSummary(context.Background(), model.ScoreSummary{Notes: 3}))
}

func TestGetSummariesBatches(t *testing.T) {
	fake := newFake()
	c := NewWithAPI(fake, "summaries")

	var names []string
	for i := 0; i < 250; i++ {
		names = append(names, fmt.Sprintf("%03d.xml", i))
	}
	res, err := c.GetSummaries(context.Background(), names)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, []int{100, 100, 50}, fake.batches)
}

func TestItemOmitsEmptyStrings(t *testing.T) {
	item := toItem(model.ScoreSummary{Filename: "a.xml", Variant: "timewise"})

	assert.NotContains(t, item, "Title")
	assert.NotContains(t, item, "Version")
	assert.Equal(t, "timewise", aws.StringValue(item["Variant"].S))
	assert.Equal(t, "0", aws.StringValue(item["Notes"].N))
}
