package flow_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resellerbot/internal/directory"
	"resellerbot/internal/flow"
	"resellerbot/internal/messages"
	"resellerbot/internal/models"
	"resellerbot/internal/payment"
	"resellerbot/internal/repository"
	"resellerbot/internal/session"
	"resellerbot/internal/testutil"
)

type fixture struct {
	ctl       *flow.Controller
	store     session.Store
	dir       *directory.Directory
	ledger    *payment.Ledger
	clients   *repository.ClientRepository
	resellers *repository.ResellerRepository
	notifier  *testutil.Notifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := testutil.Clock()
	settings := repository.NewSettingRepository(db)
	resellers := repository.NewResellerRepository(db)
	clients := repository.NewClientRepository(db)
	dir := directory.New(db, directory.Repos{Setting: settings, Reseller: resellers, Client: clients}, t.TempDir(), clock, zap.NewNop())
	ledger := payment.NewLedger(settings, repository.NewPaymentRepository(db), clock, zap.NewNop())
	store := session.NewMemoryStore(time.Hour, clock)
	notifier := &testutil.Notifier{}

	ctl := flow.NewController(flow.Deps{
		Store:     store,
		Directory: dir,
		Ledger:    ledger,
		Settings:  settings,
		Notifier:  notifier,
		Texts:     messages.New("en"),
		Clock:     clock,
		Logger:    zap.NewNop(),
	})
	return &fixture{ctl: ctl, store: store, dir: dir, ledger: ledger, clients: clients, resellers: resellers, notifier: notifier}
}

func (f *fixture) session(t *testing.T, userID int64) *session.Session {
	t.Helper()
	s, err := f.store.Get(context.Background(), userID)
	require.NoError(t, err)
	return s
}

func (f *fixture) press(t *testing.T, userID int64, data string) *flow.Reply {
	t.Helper()
	reply, err := f.ctl.HandleCallback(context.Background(), userID, data)
	require.NoError(t, err)
	return reply
}

func buttonData(r *flow.Reply) []string {
	var out []string
	for _, row := range r.Inline {
		for _, b := range row {
			out = append(out, b.Data)
		}
	}
	return out
}

func TestCallback_IgnoredWithoutMatchingFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.press(t, 3000, "pay:plan"))

	_, err := f.ctl.StartNewClient(ctx, 2000, "2000")
	require.NoError(t, err)
	assert.Nil(t, f.press(t, 2000, "pay:client"))
	assert.Equal(t, session.ModeNewClient, f.session(t, 2000).Mode)

	_, err = f.ctl.HandleCallback(ctx, 2000, "pay:bogus")
	assert.ErrorIs(t, err, flow.ErrUnknownCallback)
}

func TestClientRenewalFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.dir.CreateReseller("2000", models.TierBasic, "@shop")
	require.NoError(t, err)
	c, err := f.dir.CreateClient(directory.NewClient{OwnerID: 3000, ResellerID: "2000"})
	require.NoError(t, err)

	reply, err := f.ctl.StartPayment(ctx, 3000, models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, []string{"pay:plan", "pay:client"}, buttonData(reply))
	assert.Equal(t, session.StepTarget, f.session(t, 3000).Step)

	reply = f.press(t, 3000, "pay:client")
	require.NotNil(t, reply)
	assert.True(t, reply.Edit)
	assert.Contains(t, buttonData(reply), "pay:c:90")
	assert.Equal(t, c.Slug, f.session(t, 3000).ItemID)

	reply = f.press(t, 3000, "pay:c:90")
	assert.Contains(t, reply.Text, "14 USD")
	assert.Contains(t, reply.Text, "6300 CUP")
	assert.Equal(t, session.StepMethod, f.session(t, 3000).Step)

	reply = f.press(t, 3000, "pay:m:cup")
	assert.Contains(t, reply.Text, "6300")
	assert.Equal(t, []string{"pay:receipt", "pay:back"}, buttonData(reply))
	assert.Equal(t, session.StepReceipt, f.session(t, 3000).Step)

	reply = f.press(t, 3000, "pay:receipt")
	assert.True(t, reply.Alert)

	// Text without an attachment keeps waiting for the receipt.
	reply, err = f.ctl.HandleMessage(ctx, 3000, flow.Input{Text: "paid!", MessageID: 98})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "image")
	assert.Equal(t, session.StepReceipt, f.session(t, 3000).Step)

	reply, err = f.ctl.HandleMessage(ctx, 3000, flow.Input{HasMedia: true, MessageID: 99})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Receipt received")
	assert.Nil(t, f.session(t, 3000))

	list, err := f.ledger.Recent(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, "client_90", p.Plan)
	assert.Equal(t, c.Slug, p.ItemID)
	assert.Equal(t, "client", p.Role)
	assert.Equal(t, "cup", p.Method)
	assert.Equal(t, 14.0, p.AmountUSD)
	assert.Equal(t, 6300.0, p.AmountLocal)
	assert.Equal(t, 450.0, p.RateUsed)
	assert.Equal(t, 99, p.ReceiptMsgID)
	assert.Equal(t, string(models.PaymentPending), p.Status)
	assert.True(t, strings.Contains(reply.Text, p.ID))

	assert.True(t, f.notifier.Contains(testutil.OwnerID, p.ID))
	require.Len(t, f.notifier.Forwarded, 1)
	assert.Equal(t, testutil.Forwarded{To: testutil.OwnerID, From: 3000, MessageID: 99}, f.notifier.Forwarded[0])
}

func TestClientCannotPickResellerPlan(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctl.StartPayment(context.Background(), 3000, models.RoleClient)
	require.NoError(t, err)

	reply := f.press(t, 3000, "pay:plan")
	assert.True(t, reply.Alert)
	reply = f.press(t, 3000, "pay:res_e")
	assert.True(t, reply.Alert)
	assert.Equal(t, session.StepTarget, f.session(t, 3000).Step)
}

func TestUnregisteredClientRenewal(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctl.StartPayment(context.Background(), 3000, models.RoleClient)
	require.NoError(t, err)

	reply := f.press(t, 3000, "pay:client")
	assert.True(t, reply.Alert)
	assert.Contains(t, reply.Text, "Not registered")
}

func TestResellerUpgradeShowsProrate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.resellers.Upsert(&models.Reseller{
		ID: "2000", Plan: string(models.TierBasic), Started: "2026-03-01", Expires: "2026-03-31",
	}))
	_, err := f.ctl.StartPayment(context.Background(), 2000, models.RoleReseller)
	require.NoError(t, err)

	reply := f.press(t, 2000, "pay:plan")
	assert.Equal(t, []string{"pay:res_b", "pay:res_p", "pay:res_e", "pay:back"}, buttonData(reply))
	assert.Contains(t, reply.Text, "20 / 9000")

	reply = f.press(t, 2000, "pay:res_p")
	assert.Contains(t, reply.Text, "20 USD")
	assert.Contains(t, reply.Text, "remaining period: 7 USD")

	s := f.session(t, 2000)
	assert.Equal(t, "res_p", s.PlanCode)
	assert.Equal(t, "2000", s.ItemID)
	assert.Equal(t, 7.0, s.Prorate)

	// Term buttons from an older message do not apply to a tier purchase.
	assert.Nil(t, f.press(t, 2000, "pay:c:30"))
}

func TestResellerPicksOnlyOwnClients(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"2000", "2001"} {
		_, err := f.dir.CreateReseller(id, models.TierPro, "")
		require.NoError(t, err)
	}
	own, err := f.dir.CreateClient(directory.NewClient{OwnerID: 3000, ResellerID: "2000"})
	require.NoError(t, err)
	other, err := f.dir.CreateClient(directory.NewClient{OwnerID: 3001, ResellerID: "2001"})
	require.NoError(t, err)

	_, err = f.ctl.StartPayment(context.Background(), 2000, models.RoleReseller)
	require.NoError(t, err)

	reply := f.press(t, 2000, "pay:client")
	assert.Equal(t, []string{"pay:cli:" + own.Slug, "pay:back"}, buttonData(reply))

	reply = f.press(t, 2000, "pay:cli:"+other.Slug)
	assert.True(t, reply.Alert)
	assert.Empty(t, f.session(t, 2000).ItemID)

	reply = f.press(t, 2000, "pay:cli:"+own.Slug)
	assert.False(t, reply.Alert)
	assert.Equal(t, own.Slug, f.session(t, 2000).ItemID)
}

func TestResellerWithoutClients(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctl.StartPayment(context.Background(), 2000, models.RoleReseller)
	require.NoError(t, err)

	reply := f.press(t, 2000, "pay:client")
	assert.True(t, reply.Alert)
}

func TestBackResetsSelection(t *testing.T) {
	f := newFixture(t)
	_, err := f.dir.CreateReseller("2000", models.TierBasic, "")
	require.NoError(t, err)
	_, err = f.ctl.StartPayment(context.Background(), 2000, models.RoleReseller)
	require.NoError(t, err)
	f.press(t, 2000, "pay:plan")
	f.press(t, 2000, "pay:res_e")

	reply := f.press(t, 2000, "pay:back")
	assert.True(t, reply.Edit)
	s := f.session(t, 2000)
	assert.Equal(t, session.StepTarget, s.Step)
	assert.Empty(t, s.PlanCode)

	// Method and receipt buttons need a selected plan.
	assert.Nil(t, f.press(t, 2000, "pay:m:saldo"))
	assert.Nil(t, f.press(t, 2000, "pay:receipt"))
}

func TestMessageWithoutFlowIsNotHandled(t *testing.T) {
	f := newFixture(t)

	reply, err := f.ctl.HandleMessage(context.Background(), 3000, flow.Input{Text: "hola"})
	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestNewClientFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.dir.CreateReseller("2000", models.TierBasic, "")
	require.NoError(t, err)

	_, err = f.ctl.StartNewClient(ctx, 2000, "2000")
	require.NoError(t, err)

	reply, err := f.ctl.HandleMessage(ctx, 2000, flow.Input{Text: "not-a-number"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Invalid ID")
	assert.Equal(t, session.StepClientID, f.session(t, 2000).Step)

	reply, err = f.ctl.HandleMessage(ctx, 2000, flow.Input{Text: " 3001 "})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "3001")
	assert.Equal(t, models.RoleReseller, reply.Menu)
	assert.Nil(t, f.session(t, 2000))

	c, err := f.dir.ClientByOwner(3001)
	require.NoError(t, err)
	assert.Equal(t, "2000", c.ResellerID)
}

func TestNewClientFlow_LimitClearsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.dir.CreateReseller("2000", models.TierBasic, "")
	require.NoError(t, err)
	for owner := int64(3001); owner <= 3003; owner++ {
		_, err := f.dir.CreateClient(directory.NewClient{OwnerID: owner, ResellerID: "2000"})
		require.NoError(t, err)
	}

	_, err = f.ctl.StartNewClient(ctx, 2000, "2000")
	require.NoError(t, err)
	reply, err := f.ctl.HandleMessage(ctx, 2000, flow.Input{Text: "3004"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "(3 bots)")
	assert.Nil(t, f.session(t, 2000))

	n, err := f.clients.CountByReseller("2000")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStartingAFlowOverwritesTheOpenOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctl.StartNewClient(ctx, 2000, "2000")
	require.NoError(t, err)
	_, err = f.ctl.StartPayment(ctx, 2000, models.RoleReseller)
	require.NoError(t, err)

	s := f.session(t, 2000)
	assert.Equal(t, session.ModePay, s.Mode)
	reply, err := f.ctl.HandleMessage(ctx, 2000, flow.Input{Text: "3001"})
	require.NoError(t, err)
	assert.Nil(t, reply)
}
