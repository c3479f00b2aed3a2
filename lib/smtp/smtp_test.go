package smtp

import (
	"bytes"
	"io"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/require"
)

func TestSendEMail(t *testing.T) {
	t.Run(`письмо собирается в MIME и уходит на адрес сервера`, func(t *testing.T) {
		var (
			gotAddr string
			gotFrom string
			gotTo   []string
			gotBody []byte
		)
		i := impl{
			user:     "robot",
			password: "secret",
			host:     "smtp.local",
			port:     "25",
			from:     "letaky@shop.cz",
			send: func(addr string, a sasl.Client, from string, to []string, r *bytes.Reader) error {
				gotAddr = addr
				gotFrom = from
				gotTo = to
				gotBody, _ = io.ReadAll(r)
				require.NotNil(t, a)
				return nil
			},
		}
		err := i.SendEMail([]string{"supplier@shop.cz"}, "Листовка одобрена", "<p>Листовка <b>Весна</b> одобрена</p>")
		require.NoError(t, err)
		require.Equal(t, "smtp.local:25", gotAddr)
		require.Equal(t, "letaky@shop.cz", gotFrom)
		require.Equal(t, []string{"supplier@shop.cz"}, gotTo)
		require.Contains(t, string(gotBody), "multipart/alternative")
		require.Contains(t, string(gotBody), "text/html")
		require.Contains(t, string(gotBody), "supplier@shop.cz")
	})
	t.Run(`без настроенного сервера письмо пропускается`, func(t *testing.T) {
		called := false
		i := impl{
			send: func(addr string, a sasl.Client, from string, to []string, r *bytes.Reader) error {
				called = true
				return nil
			},
		}
		require.NoError(t, i.SendEMail([]string{"a@b.cz"}, "тема", "<p>текст</p>"))
		require.False(t, called)
	})
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "Листовка Весна одобрена", plainText("<p>Листовка <b>Весна</b> одобрена</p>"))
}
