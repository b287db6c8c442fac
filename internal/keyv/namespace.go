package keyv

const DefaultNamespace = "keyv"

const separator = ":"

// PhysicalKey is the key the adapter sees. Separators inside namespace or key
// are not escaped, so a namespace must not contain ":" to stay isolated.
func PhysicalKey(namespace, key string) string {
	return namespace + separator + key
}

// NamespacePrefix is the prefix shared by every physical key of namespace.
func NamespacePrefix(namespace string) string {
	return namespace + separator
}

func (k *Keyv[V]) physicalKeys(keys []string) []string {
	physical := make([]string, len(keys))
	for i, key := range keys {
		physical[i] = PhysicalKey(k.namespace, key)
	}
	return physical
}
