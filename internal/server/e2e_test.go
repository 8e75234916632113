package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

type tokenBody struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

func signupAndSignin(t *testing.T, h http.Handler, name, email string) tokenBody {
	t.Helper()
	apitest.New().
		Handler(h).
		Post("/api/signup").
		JSON(`{"name":"` + name + `","email":"` + email + `","password":"pw123"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.email", email)).
		Assert(jsonpath.NotPresent("$.password")).
		End()

	var body tokenBody
	apitest.New().
		Handler(h).
		Post("/api/signin").
		JSON(`{"email":"` + email + `","password":"pw123"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End().
		JSON(&body)
	require.NotEmpty(t, body.Token)
	return body
}

func TestE2E_SignupSigninWrongPassword(t *testing.T) {
	s, _ := newTestServer(t)
	h := adaptor.FiberApp(s.App())

	signupAndSignin(t, h, "A", "a@x.com")

	apitest.New().
		Handler(h).
		Post("/api/signin").
		JSON(`{"email":"a@x.com","password":"wrong"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.code", "INVALID_CREDENTIAL")).
		End()
}

func TestE2E_OwnershipOnQuestionsAndAnswers(t *testing.T) {
	s, _ := newTestServer(t)
	h := adaptor.FiberApp(s.App())

	u1 := signupAndSignin(t, h, "U1", "u1@x.com")
	u2 := signupAndSignin(t, h, "U2", "u2@x.com")

	var q struct {
		ID string `json:"id"`
	}
	apitest.New().
		Handler(h).
		Post("/api/questions").
		Header("Authorization", u1.Token).
		JSON(`{"title":"How do I test?","content":"With apitest","tags":["Go","testing"]}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.user_id", u1.User.ID)).
		Assert(jsonpath.Len("$.tags", 2)).
		End().
		JSON(&q)

	var a struct {
		ID string `json:"id"`
	}
	apitest.New().
		Handler(h).
		Post("/api/questions/"+q.ID+"/answers").
		Header("Authorization", u2.Token).
		JSON(`{"content":"Like this"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.user_id", u2.User.ID)).
		End().
		JSON(&a)

	apitest.New().
		Handler(h).
		Put("/api/questions/"+q.ID).
		Header("Authorization", u2.Token).
		JSON(`{"title":"hijacked","content":"nope"}`).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.code", "NOT_OWNER")).
		End()

	apitest.New().
		Handler(h).
		Delete("/api/questions/"+q.ID).
		Header("Authorization", u2.Token).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.code", "NOT_OWNER")).
		End()

	apitest.New().
		Handler(h).
		Delete("/api/answers/"+a.ID).
		Header("Authorization", u1.Token).
		Expect(t).
		Status(http.StatusForbidden).
		End()

	apitest.New().
		Handler(h).
		Put("/api/questions/"+q.ID).
		Header("Authorization", u1.Token).
		JSON(`{"title":"How do I test well?","content":"With apitest"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.title", "How do I test well?")).
		Assert(jsonpath.Equal("$.user_id", u1.User.ID)).
		End()

	apitest.New().
		Handler(h).
		Get("/api/questions/"+q.ID+"/answers").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		End()

	apitest.New().
		Handler(h).
		Delete("/api/questions/"+q.ID).
		Header("Authorization", u1.Token).
		Expect(t).
		Status(http.StatusNoContent).
		End()

	apitest.New().
		Handler(h).
		Get("/api/questions/"+q.ID).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.code", "NOT_FOUND")).
		End()

	apitest.New().
		Handler(h).
		Delete("/api/answers/"+a.ID).
		Header("Authorization", u2.Token).
		Expect(t).
		Status(http.StatusForbidden).
		End()
}

func TestE2E_ProtectedRouteWithoutHeader(t *testing.T) {
	s, _ := newTestServer(t)

	apitest.New().
		Handler(adaptor.FiberApp(s.App())).
		Post("/api/questions").
		JSON(`{"title":"t","content":"c"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.code", "AUTH_TOKEN_INVALID")).
		End()
}
