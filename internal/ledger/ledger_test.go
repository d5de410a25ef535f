package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/models"
)

func testApp(id string) models.Application {
	return models.Application{
		ID:          id,
		Name:        "Test Applicant",
		AmountMinor: 500000,
		Currency:    "INR",
		Type:        "Personal Loan",
		Status:      models.StatusProcessing,
		Progress:    25,
		Date:        "2024-12-10",
		Email:       "test@email.com",
	}
}

func TestLedger_PrependOrdering(t *testing.T) {
	l := New()

	l.Prepend(testApp("APP-A"))
	l.Prepend(testApp("APP-B"))

	apps := l.All()
	require.Len(t, apps, 2)
	assert.Equal(t, "APP-B", apps[0].ID, "index 0 is always the most recent entry")
	assert.Equal(t, "APP-A", apps[1].ID)
}

func TestLedger_Seed(t *testing.T) {
	l := New(testApp("APP-1"), testApp("APP-2"))
	assert.Equal(t, 2, l.Len())

	l.Prepend(testApp("APP-3"))
	assert.Equal(t, "APP-3", l.All()[0].ID)
}

func TestLedger_AllReturnsCopy(t *testing.T) {
	l := New(testApp("APP-1"))

	apps := l.All()
	apps[0].ID = "mutated"

	assert.Equal(t, "APP-1", l.All()[0].ID)
}

func TestLedger_Replace(t *testing.T) {
	l := New(testApp("APP-old"))

	l.Replace([]models.Application{testApp("APP-new-1"), testApp("APP-new-2")})

	apps := l.All()
	require.Len(t, apps, 2)
	assert.Equal(t, "APP-new-1", apps[0].ID)
}

func TestLedger_ConcurrentPrepend(t *testing.T) {
	l := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Prepend(testApp(fmt.Sprintf("APP-%03d", n)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, l.Len(), "no prepend may be lost under concurrency")
}
