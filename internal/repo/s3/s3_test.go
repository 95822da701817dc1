package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/pulseping/internal/repo"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *mockClient) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Store_EnsureContainer(t *testing.T) {
	t.Run("existing bucket", func(t *testing.T) {
		m := new(mockClient)
		m.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)

		require.NoError(t, NewWithClient(m, "logs", "us-east-1").EnsureContainer(context.Background()))
		m.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything)
	})

	t.Run("creates with location outside us-east-1", func(t *testing.T) {
		m := new(mockClient)
		m.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))
		m.On("CreateBucket", mock.Anything, mock.MatchedBy(func(in *s3.CreateBucketInput) bool {
			return *in.Bucket == "logs" &&
				in.CreateBucketConfiguration != nil &&
				in.CreateBucketConfiguration.LocationConstraint == types.BucketLocationConstraint("eu-north-1")
		})).Return(&s3.CreateBucketOutput{}, nil)

		require.NoError(t, NewWithClient(m, "logs", "eu-north-1").EnsureContainer(context.Background()))
		m.AssertExpectations(t)
	})

	t.Run("already owned is not an error", func(t *testing.T) {
		m := new(mockClient)
		m.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("forbidden"))
		m.On("CreateBucket", mock.Anything, mock.Anything).Return(nil, &types.BucketAlreadyOwnedByYou{})

		assert.NoError(t, NewWithClient(m, "logs", "").EnsureContainer(context.Background()))
	})

	t.Run("other create errors propagate", func(t *testing.T) {
		m := new(mockClient)
		m.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))
		m.On("CreateBucket", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		err := NewWithClient(m, "logs", "").EnsureContainer(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}

func TestS3Store_Read(t *testing.T) {
	m := new(mockClient)
	m.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "pings-2025-08-18.jsonl"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("a\n"))}, nil)
	m.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "pings-2025-08-19.jsonl"
	})).Return(nil, &types.NoSuchKey{})

	s := NewWithClient(m, "logs", "")
	got, err := s.Read(context.Background(), "pings-2025-08-18.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(got))

	_, err = s.Read(context.Background(), "pings-2025-08-19.jsonl")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestS3Store_Write(t *testing.T) {
	m := new(mockClient)
	m.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		b, _ := io.ReadAll(in.Body)
		return *in.Bucket == "logs" && *in.Key == "p" && string(b) == "x\n" && *in.ContentLength == 2
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, NewWithClient(m, "logs", "").Write(context.Background(), "p", []byte("x\n")))
	m.AssertExpectations(t)
}
