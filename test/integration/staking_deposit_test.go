package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type DepositRequest struct {
	OwnerID      uint    `json:"owner_id"`
	MachineID    uint    `json:"machine_id"`
	TokenAmount  float64 `json:"token_amount"`
	PhaseEnabled bool    `json:"phase_enabled"`
}

func TestStakingDepositAPI(t *testing.T) {
	requireServer(t)

	t.Run("Deposit Rejects Missing Fields", func(t *testing.T) {
		payload, err := json.Marshal(map[string]interface{}{"owner_id": 1})
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/staking/deposit", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Deposit On Unknown Machine Returns Not Found", func(t *testing.T) {
		deposit := DepositRequest{
			OwnerID:     999999,
			MachineID:   999999,
			TokenAmount: 10,
		}
		payload, err := json.Marshal(deposit)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/staking/deposit", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Insufficient Balance Leaves No Side Effects", func(t *testing.T) {
		// 建一个产品和钱包, 不空投余额, 入金必须整体失败
		product := map[string]interface{}{
			"name":               "it-deposit-product",
			"price":              100.0,
			"minting_power_rate": 0.0016,
		}
		payload, err := json.Marshal(product)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/machine-products", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Skip("Cannot create machine product, skipping")
		}

		deposit := DepositRequest{
			OwnerID:     424242,
			MachineID:   999999,
			TokenAmount: 1000000,
		}
		payload, err = json.Marshal(deposit)
		require.NoError(t, err)

		resp, err = http.Post(BaseURL+"/staking/deposit", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.NotEqual(t, http.StatusCreated, resp.StatusCode)

		// 失败的入金不能留下任何流水
		listResp, err := http.Get(fmt.Sprintf("%s/staking/records?owner_id=%d", BaseURL, deposit.OwnerID))
		require.NoError(t, err)
		defer listResp.Body.Close()

		var page struct {
			Data       []json.RawMessage `json:"data"`
			Pagination struct {
				TotalCount int64 `json:"total_count"`
			} `json:"pagination"`
		}
		err = json.NewDecoder(listResp.Body).Decode(&page)
		require.NoError(t, err)
		assert.Zero(t, page.Pagination.TotalCount)
	})

	t.Run("List Stake Records Is Paginated", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/staking/records?page=1&page_size=5")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page struct {
			Pagination struct {
				CurrentPage int `json:"current_page"`
				PageSize    int `json:"page_size"`
			} `json:"pagination"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Pagination.CurrentPage)
		assert.Equal(t, 5, page.Pagination.PageSize)
	})
}

func TestMachineAPI(t *testing.T) {
	requireServer(t)

	t.Run("List Machines", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/machines")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Get Unknown Machine Returns Not Found", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/machines/999999")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Purchase Requires Owner And Product", func(t *testing.T) {
		payload, err := json.Marshal(map[string]interface{}{"auto_compound": true})
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/machines", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestWalletAPI(t *testing.T) {
	requireServer(t)

	var ownerID uint = 434343

	t.Run("Create Wallet And Airdrop", func(t *testing.T) {
		wallet := map[string]interface{}{
			"owner_id": ownerID,
			"token":    "XT",
			"kind":     "STAKE",
		}
		payload, err := json.Marshal(wallet)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/wallets", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		resp.Body.Close()
		require.Contains(t, []int{http.StatusCreated, http.StatusInternalServerError}, resp.StatusCode)

		airdrop := map[string]interface{}{
			"owner_id": ownerID,
			"kind":     "STAKE",
			"amount":   25.5,
			"note":     "integration test airdrop",
		}
		payload, err = json.Marshal(airdrop)
		require.NoError(t, err)

		resp, err = http.Post(BaseURL+"/wallets/airdrop", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Owner Wallets Show Derived Balance", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/wallets/owner/%d", BaseURL, ownerID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var wallets []struct {
			Kind    string  `json:"kind"`
			Balance float64 `json:"balance"`
		}
		err = json.NewDecoder(resp.Body).Decode(&wallets)
		require.NoError(t, err)

		for _, w := range wallets {
			if w.Kind == "STAKE" {
				assert.GreaterOrEqual(t, w.Balance, 25.5)
			}
		}
	})
}
