package redis

import "strings"

// Keyspace builds namespaced keys so several environments can share one
// Redis instance.
type Keyspace struct {
	namespace string
}

func NewKeyspace(namespace string) Keyspace {
	namespace = strings.Trim(strings.TrimSpace(namespace), ":")
	if namespace == "" {
		namespace = defaultNamespace
	}
	return Keyspace{namespace: namespace}
}

// Cart holds a shopper's cart and wishlist snapshot.
func (k Keyspace) Cart(shopperID string) string {
	return k.join("cart", shopperID)
}

// CheckoutSession holds a shopper's checkout wizard state.
func (k Keyspace) CheckoutSession(shopperID string) string {
	return k.join("checkout", shopperID)
}

func (k Keyspace) Idempotency(scope, id string) string {
	return k.join("idempotency", scope, id)
}

func (k Keyspace) Lock(name string) string {
	return k.join("lock", name)
}

func (k Keyspace) join(parts ...string) string {
	var b strings.Builder
	if k.namespace == "" {
		b.WriteString(defaultNamespace)
	} else {
		b.WriteString(k.namespace)
	}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

// IdempotencyKey lets *Client satisfy IdempotencyStore.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.Keys.Idempotency(scope, id)
}

func (c *Client) CartKey(shopperID string) string {
	return c.Keys.Cart(shopperID)
}

func (c *Client) CheckoutSessionKey(shopperID string) string {
	return c.Keys.CheckoutSession(shopperID)
}

func (c *Client) LockKey(name string) string {
	return c.Keys.Lock(name)
}
