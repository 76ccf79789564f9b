package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/messaging"
	"github.com/chainequity/captable-indexer/internal/mocks"
	jspublisher "github.com/chainequity/captable-indexer/internal/providers/jetstream"
)

// testPublisherMocks contains all the mocks needed for testing the publisher
type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)

	return &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func (tm *testPublisherMocks) connect(t *testing.T, cfg jspublisher.Config, jsonAdapter adapter.JSON) messaging.Publisher {
	t.Helper()

	tm.natsJS.EXPECT().
		Connect(cfg.URL, gomock.Any()).
		Return(tm.conn, tm.js, nil)
	if cfg.StreamName != "" {
		tm.js.EXPECT().
			EnsureStream(gomock.Any(), cfg.StreamName, []string{"captable.eip155_84532.>"}).
			Return(nil)
	}

	pub, err := jspublisher.NewPublisher(context.Background(), cfg, tm.natsJS, jsonAdapter)
	require.NoError(t, err)
	return pub
}

func testConfig() jspublisher.Config {
	return jspublisher.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "CAPTABLE",
		MaxReconnects:  10,
		ReconnectWait:  2 * time.Second,
		ConnectionName: "captable-indexer",
		Chain:          domain.ChainBaseSepolia,
	}
}

func testTransfer() domain.TransferEvent {
	return domain.TransferEvent{
		EventMeta: domain.EventMeta{
			TxHash:         "0xabc",
			LogIndex:       7,
			BlockNumber:    150,
			BlockTimestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		From:   domain.ETHEREUM_ZERO_ADDRESS,
		To:     "0x70997970c51812dc3a010c7d01b50e0d17dc79c8",
		Amount: big.NewInt(1000),
	}
}

func TestPublishEvent(t *testing.T) {
	tm := setupTestPublisher(t)
	pub := tm.connect(t, testConfig(), adapter.NewJSON())

	tm.js.EXPECT().
		Publish(gomock.Any(), "captable.eip155_84532.transfer", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			assert.Len(t, opts, 2)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &payload))
			assert.Equal(t, "eip155:84532", payload["chain"])
			assert.Equal(t, "transfer", payload["event_type"])

			event, ok := payload["event"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "0xabc", event["tx_hash"])
			assert.Equal(t, float64(1000), event["amount"])

			return &jetstream.PubAck{Stream: "CAPTABLE", Sequence: 1}, nil
		})

	err := pub.PublishEvent(context.Background(), testTransfer())
	assert.NoError(t, err)
}

func TestPublishEvent_NoStream(t *testing.T) {
	tm := setupTestPublisher(t)
	cfg := testConfig()
	cfg.StreamName = ""
	pub := tm.connect(t, cfg, adapter.NewJSON())

	split := domain.StockSplitEvent{
		EventMeta:      domain.EventMeta{TxHash: "0xdef", BlockNumber: 200},
		Multiplier:     2,
		NewTotalSupply: big.NewInt(9000),
	}

	tm.js.EXPECT().
		Publish(gomock.Any(), "captable.eip155_84532.stock_split", gomock.Any(), gomock.Any()).
		Return(&jetstream.PubAck{}, nil)

	err := pub.PublishEvent(context.Background(), split)
	assert.NoError(t, err)
}

func TestPublishEvent_Errors(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		tm := setupTestPublisher(t)
		jsonAdapter := mocks.NewMockJSON(tm.ctrl)
		pub := tm.connect(t, testConfig(), jsonAdapter)

		jsonAdapter.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("boom"))

		err := pub.PublishEvent(context.Background(), testTransfer())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal event")
	})

	t.Run("publish", func(t *testing.T) {
		tm := setupTestPublisher(t)
		pub := tm.connect(t, testConfig(), adapter.NewJSON())

		tm.js.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, jetstream.ErrNoStreamResponse)

		err := pub.PublishEvent(context.Background(), testTransfer())
		require.Error(t, err)
		assert.ErrorIs(t, err, jetstream.ErrNoStreamResponse)
	})
}

func TestNewPublisher_ConnectError(t *testing.T) {
	tm := setupTestPublisher(t)

	tm.natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(nil, nil, errors.New("no servers available for connection"))

	pub, err := jspublisher.NewPublisher(context.Background(), testConfig(), tm.natsJS, adapter.NewJSON())

	require.Error(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestNewPublisher_EnsureStreamError(t *testing.T) {
	tm := setupTestPublisher(t)

	tm.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(tm.conn, tm.js, nil)
	tm.js.EXPECT().
		EnsureStream(gomock.Any(), "CAPTABLE", gomock.Any()).
		Return(errors.New("insufficient resources"))
	tm.conn.EXPECT().Close()

	pub, err := jspublisher.NewPublisher(context.Background(), testConfig(), tm.natsJS, adapter.NewJSON())

	require.Error(t, err)
	assert.Nil(t, pub)
}

func TestPublisherClose(t *testing.T) {
	tm := setupTestPublisher(t)
	pub := tm.connect(t, testConfig(), adapter.NewJSON())

	tm.conn.EXPECT().Close()

	pub.Close()
}
