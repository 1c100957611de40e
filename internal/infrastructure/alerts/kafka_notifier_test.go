package alerts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
)

func TestAlertMessage_ClaveEsElProducto(t *testing.T) {
	at := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	msg, err := alertMessage(entity.LowStockAlert{ProductID: "p-9", SKU: "ARZ-1", Quantity: 3, Threshold: 10, At: at})
	require.NoError(t, err)

	assert.Equal(t, []byte("p-9"), msg.Key)
	assert.Equal(t, at, msg.Time)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "ARZ-1", body["sku"])
	assert.EqualValues(t, 3, body["quantity"])
}

func TestNewKafkaNotifier_Writer(t *testing.T) {
	n := NewKafkaNotifier([]string{"localhost:9092"}, "inventory.low_stock")
	assert.Equal(t, "inventory.low_stock", n.writer.Topic)
	assert.NoError(t, n.Close())
}
